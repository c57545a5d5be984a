package models_test

import (
	"testing"

	"github.com/AlexisAHG/Quant-Option-Portfolio/models"
)

func surfaceGrid() ([]float64, []float64) {
	strikes := make([]float64, 0, 9)
	for k := 80.0; k <= 120; k += 5 {
		strikes = append(strikes, k)
	}
	times := []float64{1.0 / 12, 0.25, 0.5, 1.0, 2.0}
	return strikes, times
}

func TestSyntheticSurfaceBounds(t *testing.T) {
	strikes, times := surfaceGrid()
	surface := models.SyntheticVolatilitySurface(100, 0.2, strikes, times, 5)

	if len(surface.Vols) != len(times) {
		t.Fatalf("surface has %d maturity rows, want %d", len(surface.Vols), len(times))
	}
	for i, row := range surface.Vols {
		if len(row) != len(strikes) {
			t.Fatalf("row %d has %d strikes, want %d", i, len(row), len(strikes))
		}
		for j, v := range row {
			if v < 0.05 || v > 1.0 {
				t.Errorf("vol[%d][%d] = %v outside [0.05, 1.0]", i, j, v)
			}
		}
	}
}

func TestSyntheticSurfaceSkew(t *testing.T) {
	strikes, times := surfaceGrid()
	surface := models.SyntheticVolatilitySurface(100, 0.2, strikes, times, 5)

	// Downside strikes carry richer vols than upside strikes; the skew slope
	// dominates the 0.5% noise at 20% moneyness.
	for i := range times {
		low := surface.Vols[i][0]
		high := surface.Vols[i][len(strikes)-1]
		if low <= high {
			t.Errorf("maturity row %d: vol at K=80 (%v) not above vol at K=120 (%v)", i, low, high)
		}
	}
}

func TestSyntheticSurfaceReproducible(t *testing.T) {
	strikes, times := surfaceGrid()
	a := models.SyntheticVolatilitySurface(100, 0.2, strikes, times, 11)
	b := models.SyntheticVolatilitySurface(100, 0.2, strikes, times, 11)

	for i := range a.Vols {
		for j := range a.Vols[i] {
			if a.Vols[i][j] != b.Vols[i][j] {
				t.Fatalf("identical seeds produced different surfaces at [%d][%d]", i, j)
			}
		}
	}
}

func TestInterpolateVolatility(t *testing.T) {
	strikes, times := surfaceGrid()
	surface := models.SyntheticVolatilitySurface(100, 0.2, strikes, times, 3)

	t.Run("OnGridNode", func(t *testing.T) {
		got := models.InterpolateVolatility(surface, strikes[2], times[1])
		if !approxEqual(got, surface.Vols[1][2], 1e-12) {
			t.Errorf("interpolation at a grid node = %v, want %v", got, surface.Vols[1][2])
		}
	})

	t.Run("InsideCell", func(t *testing.T) {
		got := models.InterpolateVolatility(surface, 92.5, 0.375)
		if got < 0.05 || got > 1.0 {
			t.Errorf("interpolated vol %v outside surface bounds", got)
		}
	})

	t.Run("EmptySurface", func(t *testing.T) {
		if got := models.InterpolateVolatility(models.VolatilitySurface{}, 100, 1); got != 0 {
			t.Errorf("empty surface interpolation = %v, want 0", got)
		}
	})
}
