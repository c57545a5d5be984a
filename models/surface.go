package models

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// VolatilitySurface is an implied-volatility grid: Vols[i][j] is the vol for
// maturity Times[i] and strike Strikes[j]. Both axes are sorted ascending.
type VolatilitySurface struct {
	Strikes []float64
	Times   []float64
	Vols    [][]float64
}

const (
	surfaceMinVol   = 0.05
	surfaceMaxVol   = 1.0
	surfaceSmile    = 0.1   // quadratic coefficient in log-moneyness
	surfaceSkew     = -0.15 // linear coefficient, puts priced richer
	surfaceTerm     = 0.02  // slope against sqrt(maturity)
	surfaceNoiseStd = 0.005
)

// SyntheticVolatilitySurface builds a demonstration surface around an
// at-the-money vol: a quadratic smile and linear skew in log-moneyness, a
// mild upward term structure, and seeded Gaussian noise, clamped to
// [0.05, 1.0]. Not fitted to any market quotes.
func SyntheticVolatilitySurface(spot, sigma float64, strikes, times []float64, seed uint64) VolatilitySurface {
	noise := distuv.Normal{Mu: 0, Sigma: surfaceNoiseStd, Src: rand.NewSource(seed)}

	vols := make([][]float64, len(times))
	for i, t := range times {
		vols[i] = make([]float64, len(strikes))
		for j, k := range strikes {
			m := math.Log(k / spot)
			iv := sigma + surfaceSmile*m*m + surfaceSkew*m + surfaceTerm*math.Sqrt(t) + noise.Rand()
			if iv < surfaceMinVol {
				iv = surfaceMinVol
			}
			if iv > surfaceMaxVol {
				iv = surfaceMaxVol
			}
			vols[i][j] = iv
		}
	}

	return VolatilitySurface{Strikes: strikes, Times: times, Vols: vols}
}

// InterpolateVolatility looks up a vol by bilinear interpolation, falling
// back to the nearest grid value at the edges. An empty surface yields 0.
func InterpolateVolatility(surface VolatilitySurface, strike, t float64) float64 {
	if len(surface.Strikes) == 0 || len(surface.Times) == 0 || len(surface.Vols) == 0 {
		return 0
	}

	tIndex := sort.SearchFloat64s(surface.Times, t)
	if tIndex > 0 {
		tIndex--
	}
	sIndex := sort.SearchFloat64s(surface.Strikes, strike)
	if sIndex > 0 {
		sIndex--
	}

	tIndex = clamp(tIndex, 0, len(surface.Times)-1)
	sIndex = clamp(sIndex, 0, len(surface.Strikes)-1)

	if tIndex == len(surface.Times)-1 || sIndex == len(surface.Strikes)-1 {
		return surface.Vols[tIndex][sIndex]
	}

	t0, t1 := surface.Times[tIndex], surface.Times[tIndex+1]
	s0, s1 := surface.Strikes[sIndex], surface.Strikes[sIndex+1]

	v00 := surface.Vols[tIndex][sIndex]
	v01 := surface.Vols[tIndex][sIndex+1]
	v10 := surface.Vols[tIndex+1][sIndex]
	v11 := surface.Vols[tIndex+1][sIndex+1]

	xt := (t - t0) / (t1 - t0)
	xs := (strike - s0) / (s1 - s0)
	xt = clampFloat(xt, 0, 1)
	xs = clampFloat(xs, 0, 1)

	return (1-xt)*(1-xs)*v00 + xt*(1-xs)*v10 + (1-xt)*xs*v01 + xt*xs*v11
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
