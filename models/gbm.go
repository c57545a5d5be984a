package models

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// GBM is a geometric Brownian motion price process under the risk-neutral
// drift r.
type GBM struct {
	S0    float64
	R     float64
	Sigma float64
}

// pathSeedStride decorrelates per-path random streams derived from one seed.
const pathSeedStride = 0x9e3779b97f4a7c15

// SimulatePaths generates a dense (nPaths x nSteps+1) ensemble of sample
// paths, one row per path with column 0 fixed at S0. Each path draws from its
// own RNG seeded deterministically from the base seed, so a run is
// reproducible regardless of how many workers execute it.
func (g *GBM) SimulatePaths(T float64, nSteps, nPaths int, seed uint64) (*mat.Dense, error) {
	if nSteps < 1 || nPaths < 1 {
		return nil, fmt.Errorf("models: step and path counts must be at least 1 (steps=%d, paths=%d)", nSteps, nPaths)
	}
	if g.S0 <= 0 {
		return nil, fmt.Errorf("models: initial spot must be positive, got %v", g.S0)
	}
	if T <= 0 {
		return nil, fmt.Errorf("models: maturity must be positive, got %v", T)
	}

	dt := T / float64(nSteps)
	drift := (g.R - 0.5*g.Sigma*g.Sigma) * dt
	vol := g.Sigma * math.Sqrt(dt)

	paths := mat.NewDense(nPaths, nSteps+1, nil)

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > nPaths {
		numWorkers = nPaths
	}
	chunk := (nPaths + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunk
		end := start + chunk
		if end > nPaths {
			end = nPaths
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				rng := rand.New(rand.NewSource(seed + uint64(i)*pathSeedStride))
				s := g.S0
				paths.Set(i, 0, s)
				for t := 1; t <= nSteps; t++ {
					s *= math.Exp(drift + vol*rng.NormFloat64())
					paths.Set(i, t, s)
				}
			}
		}(start, end)
	}
	wg.Wait()

	return paths, nil
}
