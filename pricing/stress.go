package pricing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/AlexisAHG/Quant-Option-Portfolio/models"
)

// StressScenario shifts spot and vol by relative amounts before re-pricing.
type StressScenario struct {
	Name      string
	SpotShift float64
	VolShift  float64
}

// StressResult is one re-priced scenario with its P&L against the base case.
type StressResult struct {
	Scenario string
	Spot     float64
	Vol      float64
	Price    float64
	PnL      float64
	PnLPct   float64
}

// DefaultStressScenarios spans a crash-to-rally range with the usual inverse
// spot/vol relationship.
var DefaultStressScenarios = []StressScenario{
	{Name: "Crash -20%", SpotShift: -0.20, VolShift: 0.50},
	{Name: "Bear -10%", SpotShift: -0.10, VolShift: 0.25},
	{Name: "Base Case", SpotShift: 0, VolShift: 0},
	{Name: "Bull +10%", SpotShift: 0.10, VolShift: -0.10},
	{Name: "Rally +20%", SpotShift: 0.20, VolShift: -0.20},
}

const stressVolFloor = 0.05

// StressTest re-prices the option under each scenario's shifted spot and vol.
func StressTest(S, K, T, r, sigma float64, optionType models.OptionType, scenarios []StressScenario) ([]StressResult, error) {
	base, err := BlackScholes(S, K, T, r, sigma, optionType)
	if err != nil {
		return nil, err
	}

	results := make([]StressResult, 0, len(scenarios))
	for _, sc := range scenarios {
		newS := S * (1 + sc.SpotShift)
		newSigma := math.Max(stressVolFloor, sigma*(1+sc.VolShift))
		priced, err := BlackScholes(newS, K, T, r, newSigma, optionType)
		if err != nil {
			return nil, err
		}

		pnl := priced.Price - base.Price
		pnlPct := 0.0
		if base.Price > 0 {
			pnlPct = pnl / base.Price * 100
		}

		results = append(results, StressResult{
			Scenario: sc.Name,
			Spot:     newS,
			Vol:      newSigma,
			Price:    priced.Price,
			PnL:      pnl,
			PnLPct:   pnlPct,
		})
	}

	return results, nil
}

// GreeksGrid evaluates one named Greek ("Price", "Delta", "Gamma", "Vega",
// "Theta" or "Rho") over a spot x vol mesh. Row i follows vols[i], column j
// follows spots[j], matching a heatmap layout.
func GreeksGrid(spots, vols []float64, K, T, r float64, optionType models.OptionType, greek string) (*mat.Dense, error) {
	selector, err := greekSelector(greek)
	if err != nil {
		return nil, err
	}
	if len(spots) == 0 || len(vols) == 0 {
		return nil, fmt.Errorf("pricing: empty grid axes (spots=%d, vols=%d)", len(spots), len(vols))
	}

	grid := mat.NewDense(len(vols), len(spots), nil)
	for i, vol := range vols {
		for j, spot := range spots {
			g, err := BlackScholes(spot, K, T, r, vol, optionType)
			if err != nil {
				return nil, err
			}
			grid.Set(i, j, sanitizeFloat(selector(g)))
		}
	}

	return grid, nil
}

func greekSelector(greek string) (func(Greeks) float64, error) {
	switch greek {
	case "Price":
		return func(g Greeks) float64 { return g.Price }, nil
	case "Delta":
		return func(g Greeks) float64 { return g.Delta }, nil
	case "Gamma":
		return func(g Greeks) float64 { return g.Gamma }, nil
	case "Vega":
		return func(g Greeks) float64 { return g.Vega }, nil
	case "Theta":
		return func(g Greeks) float64 { return g.Theta }, nil
	case "Rho":
		return func(g Greeks) float64 { return g.Rho }, nil
	}
	return nil, fmt.Errorf("pricing: unknown greek %q", greek)
}

// SpotGrid spans 70%..130% of the spot, the heatmap's horizontal axis.
func SpotGrid(S float64, n int) []float64 {
	return floats.Span(make([]float64, n), S*0.7, S*1.3)
}

// VolGrid spans 30%..200% of the vol with a 5% floor, the heatmap's vertical
// axis.
func VolGrid(sigma float64, n int) []float64 {
	return floats.Span(make([]float64, n), math.Max(0.05, sigma*0.3), sigma*2)
}

// PayoffPoint is one sample of the expiry payoff and premium-adjusted P&L.
type PayoffPoint struct {
	Spot   float64
	Payoff float64
	PnL    float64
}

// PayoffCurve samples payoff and P&L at expiry over 50%..150% of spot and
// returns the break-even terminal price for the given premium.
func PayoffCurve(S, K, premium float64, optionType models.OptionType, n int) ([]PayoffPoint, float64) {
	spots := floats.Span(make([]float64, n), S*0.5, S*1.5)
	points := make([]PayoffPoint, n)
	for i, spot := range spots {
		payoff := optionType.Payoff(spot, K)
		points[i] = PayoffPoint{Spot: spot, Payoff: payoff, PnL: payoff - premium}
	}

	breakeven := K + premium
	if optionType == models.Put {
		breakeven = K - premium
	}
	return points, breakeven
}

func sanitizeFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
