package hedging

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/AlexisAHG/Quant-Option-Portfolio/models"
	"github.com/AlexisAHG/Quant-Option-Portfolio/pricing"
)

const (
	// minCRRSteps floors the lattice size of the CRR delta estimator so a
	// shrinking time-to-maturity never degenerates into a one-step tree.
	minCRRSteps = 10
	// terminalTTMCutoff is the time-to-maturity below which the delta snaps
	// to the terminal exercise indicator instead of a degenerate lattice.
	terminalTTMCutoff = 0.001
)

// Config drives one delta-hedging replication run.
type Config struct {
	S0         float64
	K          float64
	T          float64
	R          float64
	Sigma      float64
	OptionType models.OptionType
	NSteps     int
	NPaths     int

	// UseClosedFormDelta selects the Black-Scholes delta at each rebalance;
	// otherwise a CRR finite-difference delta on max(minCRRSteps, NSteps-t)
	// tree steps is used. The CRR branch re-prices an O(N^2) lattice per path
	// per step and dominates the run time.
	UseClosedFormDelta bool

	Seed uint64

	// Progress, when set, is called once per completed path. It may be called
	// from multiple goroutines concurrently.
	Progress func()
}

// Result bundles the simulated ensemble with the hedge bookkeeping. All
// matrices are NPaths x (NSteps+1), row per path, column per time index, and
// are written once by the run that owns them.
type Result struct {
	Paths           *mat.Dense
	Deltas          *mat.Dense
	Cash            *mat.Dense
	StockPositions  *mat.Dense
	PortfolioValues *mat.Dense
	FinalPayoffs    []float64
	HedgingErrors   []float64

	// InitialPrice is the premium received for the option, always marked at
	// the closed-form Black-Scholes price regardless of the delta estimator.
	InitialPrice float64
}

// Simulate replays a self-financing delta hedge along a fresh GBM ensemble:
// sell the option at the Black-Scholes premium, hold delta units of stock,
// accrue the cash account at the risk-free rate and rebalance at every step.
// The terminal hedging error per path is the final portfolio value minus the
// option payoff.
func Simulate(cfg Config) (*Result, error) {
	if cfg.NSteps < 1 || cfg.NPaths < 1 {
		return nil, fmt.Errorf("hedging: step and path counts must be at least 1 (steps=%d, paths=%d)", cfg.NSteps, cfg.NPaths)
	}
	if cfg.S0 <= 0 || cfg.K <= 0 {
		return nil, fmt.Errorf("hedging: spot and strike must be positive (S0=%v, K=%v)", cfg.S0, cfg.K)
	}
	if cfg.T <= 0 || cfg.Sigma <= 0 {
		return nil, fmt.Errorf("hedging: maturity and volatility must be positive (T=%v, sigma=%v)", cfg.T, cfg.Sigma)
	}

	initial, err := pricing.BlackScholes(cfg.S0, cfg.K, cfg.T, cfg.R, cfg.Sigma, cfg.OptionType)
	if err != nil {
		return nil, err
	}

	process := &models.GBM{S0: cfg.S0, R: cfg.R, Sigma: cfg.Sigma}
	paths, err := process.SimulatePaths(cfg.T, cfg.NSteps, cfg.NPaths, cfg.Seed)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Paths:           paths,
		Deltas:          mat.NewDense(cfg.NPaths, cfg.NSteps+1, nil),
		Cash:            mat.NewDense(cfg.NPaths, cfg.NSteps+1, nil),
		StockPositions:  mat.NewDense(cfg.NPaths, cfg.NSteps+1, nil),
		PortfolioValues: mat.NewDense(cfg.NPaths, cfg.NSteps+1, nil),
		FinalPayoffs:    make([]float64, cfg.NPaths),
		HedgingErrors:   make([]float64, cfg.NPaths),
		InitialPrice:    initial.Price,
	}

	dt := cfg.T / float64(cfg.NSteps)
	growth := math.Exp(cfg.R * dt)

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > cfg.NPaths {
		numWorkers = cfg.NPaths
	}
	chunk := (cfg.NPaths + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for w := 0; w < numWorkers; w++ {
		start := w * chunk
		end := start + chunk
		if end > cfg.NPaths {
			end = cfg.NPaths
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if err := cfg.hedgePath(res, i, dt, growth); err != nil {
					fail(err)
					return
				}
				if cfg.Progress != nil {
					cfg.Progress()
				}
			}
		}(start, end)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return res, nil
}

// hedgePath runs the bookkeeping for a single path row.
func (cfg *Config) hedgePath(res *Result, i int, dt, growth float64) error {
	s := res.Paths.At(i, 0)
	delta, err := cfg.deltaAt(s, cfg.T, cfg.NSteps)
	if err != nil {
		return err
	}

	stock := delta * s
	cash := res.InitialPrice - delta*s
	res.Deltas.Set(i, 0, delta)
	res.StockPositions.Set(i, 0, stock)
	res.Cash.Set(i, 0, cash)
	res.PortfolioValues.Set(i, 0, stock+cash)

	for t := 1; t <= cfg.NSteps; t++ {
		s = res.Paths.At(i, t)
		ttm := cfg.T - float64(t)*dt

		var newDelta float64
		if ttm > terminalTTMCutoff {
			newDelta, err = cfg.deltaAt(s, ttm, cfg.NSteps-t)
			if err != nil {
				return err
			}
		} else {
			newDelta = cfg.terminalDelta(s)
		}

		cash = cash*growth - (newDelta-delta)*s
		delta = newDelta
		stock = delta * s

		res.Deltas.Set(i, t, delta)
		res.StockPositions.Set(i, t, stock)
		res.Cash.Set(i, t, cash)
		res.PortfolioValues.Set(i, t, stock+cash)
	}

	payoff := cfg.OptionType.Payoff(s, cfg.K)
	res.FinalPayoffs[i] = payoff
	res.HedgingErrors[i] = (stock + cash) - payoff
	return nil
}

func (cfg *Config) deltaAt(s, ttm float64, stepsLeft int) (float64, error) {
	if cfg.UseClosedFormDelta {
		g, err := pricing.BlackScholes(s, cfg.K, ttm, cfg.R, cfg.Sigma, cfg.OptionType)
		if err != nil {
			return 0, err
		}
		return g.Delta, nil
	}
	n := stepsLeft
	if n < minCRRSteps {
		n = minCRRSteps
	}
	return models.CRRDelta(s, cfg.K, ttm, cfg.R, cfg.Sigma, n, cfg.OptionType)
}

// terminalDelta is the exercise indicator at expiry: 1 (call) or -1 (put)
// when the option finishes in the money, 0 otherwise.
func (cfg *Config) terminalDelta(s float64) float64 {
	if cfg.OptionType == models.Call {
		if s > cfg.K {
			return 1
		}
		return 0
	}
	if s < cfg.K {
		return -1
	}
	return 0
}
