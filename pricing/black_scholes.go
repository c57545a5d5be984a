package pricing

import (
	"fmt"
	"math"

	"github.com/AlexisAHG/Quant-Option-Portfolio/models"
)

// Greeks holds one Black-Scholes evaluation. Vega is quoted per 1% vol move,
// Theta per calendar day, Rho per 1% rate move.
type Greeks struct {
	Price float64
	Delta float64
	Gamma float64
	Vega  float64
	Theta float64
	Rho   float64

	// Degenerate marks the defined all-zero result for T<=0 or sigma<=0,
	// distinguishing it from an option genuinely priced at zero.
	Degenerate bool
}

// BlackScholes computes the closed-form price and Greeks of a vanilla
// European option.
func BlackScholes(S, K, T, r, sigma float64, optionType models.OptionType) (Greeks, error) {
	if S <= 0 || K <= 0 {
		return Greeks{}, fmt.Errorf("pricing: spot and strike must be positive (S=%v, K=%v)", S, K)
	}
	if T <= 0 || sigma <= 0 {
		return Greeks{Degenerate: true}, nil
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	discount := math.Exp(-r * T)

	var price, delta, rho, theta float64
	if optionType == models.Call {
		price = S*normCDF(d1) - K*discount*normCDF(d2)
		delta = normCDF(d1)
		rho = K * T * discount * normCDF(d2)
		theta = -(S*normPDF(d1)*sigma)/(2*sqrtT) - r*K*discount*normCDF(d2)
	} else {
		price = K*discount*normCDF(-d2) - S*normCDF(-d1)
		delta = -normCDF(-d1)
		rho = -K * T * discount * normCDF(-d2)
		theta = -(S*normPDF(d1)*sigma)/(2*sqrtT) + r*K*discount*normCDF(-d2)
	}

	gamma := normPDF(d1) / (S * sigma * sqrtT)
	vega := S * sqrtT * normPDF(d1)

	return Greeks{
		Price: price,
		Delta: delta,
		Gamma: gamma,
		Vega:  vega / 100,
		Theta: theta / 365,
		Rho:   rho / 100,
	}, nil
}

// normCDF calculates the cumulative distribution function of the standard normal distribution
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPDF calculates the probability density function of the standard normal distribution
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
