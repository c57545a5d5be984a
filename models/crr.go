package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// BinomialTree holds a Cox-Ross-Rubinstein lattice built for a fixed option
// and step count N. Stock and Option are (N+1)x(N+1) matrices, triangular in
// the column index: entry (j, i) is the node after i steps and j down-moves,
// so Stock.At(j, i) = S * u^(i-j) * d^j for 0 <= j <= i <= N. Delta is NxN.
// A tree is never mutated after construction.
type BinomialTree struct {
	N      int
	Stock  *mat.Dense
	Option *mat.Dense
	Delta  *mat.Dense
	U      float64
	D      float64
	P      float64
	Dt     float64
	Growth float64 // e^(r*dt), the per-step risk-free growth factor

	// Degenerate marks the defined zero-valued result for T<=0 or sigma<=0.
	// The matrices are nil and U=D=1, P=0.5; callers must not divide by U-D.
	Degenerate bool
}

// NewBinomialTree builds the full CRR lattice: stock tree, option value tree
// via backward induction, and the per-node delta tree.
func NewBinomialTree(S, K, T, r, sigma float64, n int, optionType OptionType) (*BinomialTree, error) {
	if n < 1 {
		return nil, fmt.Errorf("models: tree steps must be at least 1, got %d", n)
	}
	if S <= 0 || K <= 0 {
		return nil, fmt.Errorf("models: spot and strike must be positive (S=%v, K=%v)", S, K)
	}
	if T <= 0 || sigma <= 0 {
		return &BinomialTree{N: n, U: 1, D: 1, P: 0.5, Degenerate: true}, nil
	}

	dt := T / float64(n)
	u := math.Exp(sigma * math.Sqrt(dt))
	d := 1 / u
	growth := math.Exp(r * dt)
	p := (growth - d) / (u - d)

	stock := mat.NewDense(n+1, n+1, nil)
	for i := 0; i <= n; i++ {
		for j := 0; j <= i; j++ {
			stock.Set(j, i, S*math.Pow(u, float64(i-j))*math.Pow(d, float64(j)))
		}
	}

	option := mat.NewDense(n+1, n+1, nil)
	for j := 0; j <= n; j++ {
		option.Set(j, n, optionType.Payoff(stock.At(j, n), K))
	}

	discount := 1 / growth
	for i := n - 1; i >= 0; i-- {
		for j := 0; j <= i; j++ {
			option.Set(j, i, discount*(p*option.At(j, i+1)+(1-p)*option.At(j+1, i+1)))
		}
	}

	delta := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			spread := stock.At(j, i+1) - stock.At(j+1, i+1)
			if spread != 0 {
				delta.Set(j, i, (option.At(j, i+1)-option.At(j+1, i+1))/spread)
			}
		}
	}

	return &BinomialTree{
		N:      n,
		Stock:  stock,
		Option: option,
		Delta:  delta,
		U:      u,
		D:      d,
		P:      p,
		Dt:     dt,
		Growth: growth,
	}, nil
}

// Price returns the option value at the root node.
func (t *BinomialTree) Price() float64 {
	if t.Degenerate {
		return 0
	}
	return t.Option.At(0, 0)
}

// RootDelta returns the lattice delta at the root node, the finite difference
// across the two first-step nodes. It is not numerically identical to
// CRRDelta, which re-prices two shifted subtrees.
func (t *BinomialTree) RootDelta() float64 {
	if t.Degenerate {
		return 0
	}
	return t.Delta.At(0, 0)
}

// NoArbitrage reports whether the lattice parameters satisfy
// d < e^(r*dt) < u with p in [0, 1]. The check is a diagnostic for the
// caller; construction never enforces it.
func (t *BinomialTree) NoArbitrage() bool {
	if t.Degenerate {
		return false
	}
	return t.D < t.Growth && t.Growth < t.U && t.P >= 0 && t.P <= 1
}

// CRRPrice prices the option on an n-step CRR lattice without retaining the
// trees.
func CRRPrice(S, K, T, r, sigma float64, n int, optionType OptionType) (float64, error) {
	tree, err := NewBinomialTree(S, K, T, r, sigma, n, optionType)
	if err != nil {
		return 0, err
	}
	return tree.Price(), nil
}

// CRRDelta estimates delta by a one-step finite difference: the option is
// re-priced on (n-1)-step subtrees rooted at S*u and S*d with maturity T-dt,
// and the difference is divided by the spot spread.
func CRRDelta(S, K, T, r, sigma float64, n int, optionType OptionType) (float64, error) {
	if n < 1 {
		return 0, fmt.Errorf("models: tree steps must be at least 1, got %d", n)
	}
	if S <= 0 || K <= 0 {
		return 0, fmt.Errorf("models: spot and strike must be positive (S=%v, K=%v)", S, K)
	}
	if T <= 0 || sigma <= 0 {
		return 0, nil
	}

	dt := T / float64(n)
	u := math.Exp(sigma * math.Sqrt(dt))
	d := 1 / u
	su := S * u
	sd := S * d

	var cu, cd float64
	if n == 1 {
		// One step from maturity the subtree value is the intrinsic payoff.
		cu = optionType.Payoff(su, K)
		cd = optionType.Payoff(sd, K)
	} else {
		var err error
		cu, err = CRRPrice(su, K, T-dt, r, sigma, n-1, optionType)
		if err != nil {
			return 0, err
		}
		cd, err = CRRPrice(sd, K, T-dt, r, sigma, n-1, optionType)
		if err != nil {
			return 0, err
		}
	}

	return (cu - cd) / (su - sd), nil
}
