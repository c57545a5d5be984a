package pricing

import (
	"errors"
	"math"

	"github.com/AlexisAHG/Quant-Option-Portfolio/models"
)

const (
	ivLowerBound    = 0.001
	ivUpperBound    = 5.0
	ivTolerance     = 1e-8
	ivMaxIterations = 100

	machineEpsilon = 2.220446049250313e-16
)

var (
	// ErrInvalidQuote is returned when the observed price or maturity is not
	// positive.
	ErrInvalidQuote = errors.New("pricing: observed price and maturity must be positive")
	// ErrNoBracket is returned when no volatility in [0.001, 5.0] reproduces
	// the observed price.
	ErrNoBracket = errors.New("pricing: observed price not attainable for volatility in [0.001, 5.0]")
	// ErrNoConvergence is returned when the root-find exhausts its iteration
	// budget.
	ErrNoConvergence = errors.New("pricing: implied volatility root-find did not converge")
)

// ImpliedVolatility inverts the Black-Scholes price to a volatility using
// Brent's method over the fixed bracket [0.001, 5.0]. There is no
// initial-guess Newton iteration; a quote the bracket cannot straddle is an
// error, never a retry.
func ImpliedVolatility(observedPrice, S, K, T, r float64, optionType models.OptionType) (float64, error) {
	if T <= 0 || observedPrice <= 0 {
		return 0, ErrInvalidQuote
	}

	objective := func(sigma float64) (float64, error) {
		g, err := BlackScholes(S, K, T, r, sigma, optionType)
		if err != nil {
			return 0, err
		}
		return g.Price - observedPrice, nil
	}

	return brent(objective, ivLowerBound, ivUpperBound)
}

// brent finds a root of f on [a, b] with Brent's method: bisection fused with
// secant and inverse quadratic interpolation. f(a) and f(b) must differ in
// sign.
func brent(f func(float64) (float64, error), a, b float64) (float64, error) {
	fa, err := f(a)
	if err != nil {
		return 0, err
	}
	fb, err := f(b)
	if err != nil {
		return 0, err
	}
	if fa*fb > 0 {
		return 0, ErrNoBracket
	}

	c, fc := a, fa
	d := b - a
	e := d

	for i := 0; i < ivMaxIterations; i++ {
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol := 2*machineEpsilon*math.Abs(b) + 0.5*ivTolerance
		m := 0.5 * (c - b)
		if math.Abs(m) <= tol || fb == 0 {
			return b, nil
		}

		if math.Abs(e) < tol || math.Abs(fa) <= math.Abs(fb) {
			// Interpolation is not making progress, bisect.
			d, e = m, m
		} else {
			s := fb / fa
			var p, q float64
			if a == c {
				// Secant step.
				p = 2 * m * s
				q = 1 - s
			} else {
				// Inverse quadratic interpolation.
				qa := fa / fc
				rb := fb / fc
				p = s * (2*m*qa*(qa-rb) - (b-a)*(rb-1))
				q = (qa - 1) * (rb - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			} else {
				p = -p
			}
			if 2*p < math.Min(3*m*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d, e = m, m
			}
		}

		a, fa = b, fb
		switch {
		case math.Abs(d) > tol:
			b += d
		case m > 0:
			b += tol
		default:
			b -= tol
		}

		fb, err = f(b)
		if err != nil {
			return 0, err
		}
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
	}

	return 0, ErrNoConvergence
}
