package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"github.com/xhhuango/json"

	"github.com/AlexisAHG/Quant-Option-Portfolio/hedging"
	"github.com/AlexisAHG/Quant-Option-Portfolio/models"
	"github.com/AlexisAHG/Quant-Option-Portfolio/pricing"
)

const (
	defaultSpot     = 100.0
	defaultStrike   = 100.0
	defaultMaturity = 1.0
	defaultRate     = 0.05
	defaultVol      = 0.2

	defaultTreeSteps  = 200
	defaultHedgeSteps = 252
	defaultHedgePaths = 2000
	defaultSeed       = 42

	convergenceMin    = 5
	convergenceMax    = 200
	convergenceStride = 5

	reportFile = "report.json"
)

// Report is the JSON output of one full analysis run.
type Report struct {
	Spot       float64           `json:"spot"`
	Strike     float64           `json:"strike"`
	Maturity   float64           `json:"maturity"`
	Rate       float64           `json:"rate"`
	Volatility float64           `json:"volatility"`
	OptionType models.OptionType `json:"option_type"`

	Greeks     pricing.Greeks `json:"greeks"`
	ImpliedVol float64        `json:"implied_vol"`

	CRRSteps     int     `json:"crr_steps"`
	CRRPrice     float64 `json:"crr_price"`
	CRRRootDelta float64 `json:"crr_root_delta"`
	U            float64 `json:"u"`
	D            float64 `json:"d"`
	P            float64 `json:"p"`
	NoArbitrage  bool    `json:"no_arbitrage"`

	Convergence []pricing.ConvergencePoint `json:"convergence"`
	Stress      []pricing.StressResult     `json:"stress"`
	Hedge       hedging.Summary            `json:"hedge"`
	Breakeven   float64                    `json:"breakeven"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using defaults")
	}

	S := getEnvFloat("SPOT", defaultSpot)
	K := getEnvFloat("STRIKE", defaultStrike)
	T := getEnvFloat("MATURITY", defaultMaturity)
	r := getEnvFloat("RATE", defaultRate)
	sigma := getEnvFloat("VOLATILITY", defaultVol)
	treeSteps := getEnvInt("TREE_STEPS", defaultTreeSteps)
	hedgeSteps := getEnvInt("HEDGE_STEPS", defaultHedgeSteps)
	hedgePaths := getEnvInt("HEDGE_PATHS", defaultHedgePaths)
	seed := uint64(getEnvInt("SEED", defaultSeed))

	optionType := models.Call
	if strings.EqualFold(os.Getenv("OPTION_TYPE"), string(models.Put)) {
		optionType = models.Put
	}

	fmt.Printf("Pricing %s: S=%.2f K=%.2f T=%.2f r=%.4f sigma=%.4f\n", optionType, S, K, T, r, sigma)

	greeks, err := pricing.BlackScholes(S, K, T, r, sigma, optionType)
	if err != nil {
		log.Fatalf("black-scholes: %s", err)
	}
	fmt.Printf("BS price: %.4f  delta: %.4f  gamma: %.4f  vega: %.4f  theta: %.4f  rho: %.4f\n",
		greeks.Price, greeks.Delta, greeks.Gamma, greeks.Vega, greeks.Theta, greeks.Rho)

	iv, err := pricing.ImpliedVolatility(greeks.Price, S, K, T, r, optionType)
	if err != nil {
		log.Fatalf("implied vol: %s", err)
	}
	fmt.Printf("Implied vol round-trip: %.6f\n", iv)

	tree, err := models.NewBinomialTree(S, K, T, r, sigma, treeSteps, optionType)
	if err != nil {
		log.Fatalf("binomial tree: %s", err)
	}
	fmt.Printf("CRR price (N=%d): %.4f  u=%.4f d=%.4f p=%.4f  arbitrage-free=%v\n",
		treeSteps, tree.Price(), tree.U, tree.D, tree.P, tree.NoArbitrage())

	study, err := pricing.NewConvergenceStudy(S, K, T, r, sigma, optionType, convergenceMin, convergenceMax, convergenceStride)
	if err != nil {
		log.Fatalf("convergence study: %s", err)
	}
	last := study.Points[len(study.Points)-1]
	fmt.Printf("Convergence: price error %.6f at N=%d\n", last.PriceError, last.Steps)

	stress, err := pricing.StressTest(S, K, T, r, sigma, optionType, pricing.DefaultStressScenarios)
	if err != nil {
		log.Fatalf("stress test: %s", err)
	}
	for _, sc := range stress {
		fmt.Printf("  %-12s spot=%.2f vol=%.2f price=%.4f pnl=%+.4f (%+.1f%%)\n",
			sc.Scenario, sc.Spot, sc.Vol, sc.Price, sc.PnL, sc.PnLPct)
	}

	surface := models.SyntheticVolatilitySurface(S, sigma, pricing.SpotGrid(S, 20),
		[]float64{1.0 / 12, 2.0 / 12, 3.0 / 12, 0.5, 1.0, 1.5, 2.0}, seed)
	surfaceVol := models.InterpolateVolatility(surface, K, T)
	fmt.Printf("Synthetic surface vol at (K=%.0f, T=%.2f): %.4f\n", K, T, surfaceVol)

	_, breakeven := pricing.PayoffCurve(S, K, greeks.Price, optionType, 100)
	fmt.Printf("Break-even at expiry: %.4f\n", breakeven)

	progress := mpb.New(mpb.WithWidth(64))
	bar := progress.AddBar(int64(hedgePaths),
		mpb.PrependDecorators(
			decor.Name("delta hedge "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	result, err := hedging.Simulate(hedging.Config{
		S0:                 S,
		K:                  K,
		T:                  T,
		R:                  r,
		Sigma:              sigma,
		OptionType:         optionType,
		NSteps:             hedgeSteps,
		NPaths:             hedgePaths,
		UseClosedFormDelta: true,
		Seed:               seed,
		Progress:           func() { bar.Increment() },
	})
	if err != nil {
		log.Fatalf("hedging simulation: %s", err)
	}
	progress.Wait()

	summary := hedging.Summarize(result)
	fmt.Printf("Hedging (%d paths, %d steps): mean error %+.4f  std %.4f  VaR95 %+.4f  VaR99 %+.4f  ES95 %+.4f\n",
		hedgePaths, hedgeSteps, summary.MeanError, summary.StdError, summary.VaR95, summary.VaR99, summary.ExpectedShortfall95)

	report := Report{
		Spot:         S,
		Strike:       K,
		Maturity:     T,
		Rate:         r,
		Volatility:   sigma,
		OptionType:   optionType,
		Greeks:       greeks,
		ImpliedVol:   iv,
		CRRSteps:     treeSteps,
		CRRPrice:     tree.Price(),
		CRRRootDelta: tree.RootDelta(),
		U:            tree.U,
		D:            tree.D,
		P:            tree.P,
		NoArbitrage:  tree.NoArbitrage(),
		Convergence:  study.Points,
		Stress:       stress,
		Hedge:        summary,
		Breakeven:    breakeven,
	}

	jreport, err := json.Marshal(report)
	if err != nil {
		fmt.Printf("Error marshalling report: %s\n", err.Error())
		return
	}

	if err := ioutil.WriteFile(reportFile, jreport, 0644); err != nil {
		fmt.Printf("Error writing to file %s: %s\n", reportFile, err.Error())
		return
	}

	fmt.Printf("Successfully wrote report to %s\n", reportFile)
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid %s=%q, using %v", key, v, fallback)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("invalid %s=%q, using %v", key, v, fallback)
	}
	return fallback
}
