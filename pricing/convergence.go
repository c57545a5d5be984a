package pricing

import (
	"fmt"
	"math"

	"github.com/AlexisAHG/Quant-Option-Portfolio/models"
)

// ConvergencePoint records one CRR evaluation against the closed-form
// reference.
type ConvergencePoint struct {
	Steps      int
	CRRPrice   float64
	CRRDelta   float64
	PriceError float64
	DeltaError float64
}

// ConvergenceStudy collects CRR prices and deltas across a grid of step
// counts, with absolute errors against the Black-Scholes values.
type ConvergenceStudy struct {
	BSPrice float64
	BSDelta float64
	Points  []ConvergencePoint
}

// NewConvergenceStudy prices the option on lattices of minSteps, minSteps+
// stride, ... up to maxSteps and compares each against the Black-Scholes
// reference. The lattice cost is O(N^2) per point, so callers should keep
// maxSteps interactive (a few hundred).
func NewConvergenceStudy(S, K, T, r, sigma float64, optionType models.OptionType, minSteps, maxSteps, stride int) (*ConvergenceStudy, error) {
	if minSteps < 2 || maxSteps < minSteps || stride < 1 {
		return nil, fmt.Errorf("pricing: invalid step grid [%d, %d] stride %d", minSteps, maxSteps, stride)
	}

	ref, err := BlackScholes(S, K, T, r, sigma, optionType)
	if err != nil {
		return nil, err
	}

	study := &ConvergenceStudy{BSPrice: ref.Price, BSDelta: ref.Delta}
	for n := minSteps; n <= maxSteps; n += stride {
		price, err := models.CRRPrice(S, K, T, r, sigma, n, optionType)
		if err != nil {
			return nil, err
		}
		delta, err := models.CRRDelta(S, K, T, r, sigma, n, optionType)
		if err != nil {
			return nil, err
		}
		study.Points = append(study.Points, ConvergencePoint{
			Steps:      n,
			CRRPrice:   price,
			CRRDelta:   delta,
			PriceError: math.Abs(price - ref.Price),
			DeltaError: math.Abs(delta - ref.Delta),
		})
	}

	return study, nil
}

// PointAt returns the convergence point for an exact step count, if the grid
// contains it.
func (s *ConvergenceStudy) PointAt(steps int) (ConvergencePoint, bool) {
	for _, p := range s.Points {
		if p.Steps == steps {
			return p, true
		}
	}
	return ConvergencePoint{}, false
}
