package hedging

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary condenses the hedging-error distribution of a run. VaR values are
// the 5th and 1st percentiles of the error distribution (large losses are
// large negative errors); ExpectedShortfall95 is the mean error in the tail
// at or below VaR95.
type Summary struct {
	Paths               int
	InitialPrice        float64
	MeanError           float64
	StdError            float64
	VaR95               float64
	VaR99               float64
	ExpectedShortfall95 float64
}

// Summarize computes ensemble statistics over a run's hedging errors.
func Summarize(res *Result) Summary {
	errs := append([]float64(nil), res.HedgingErrors...)
	sort.Float64s(errs)

	var95 := stat.Quantile(0.05, stat.Empirical, errs, nil)
	var99 := stat.Quantile(0.01, stat.Empirical, errs, nil)

	return Summary{
		Paths:               len(errs),
		InitialPrice:        res.InitialPrice,
		MeanError:           stat.Mean(errs, nil),
		StdError:            stat.StdDev(errs, nil),
		VaR95:               var95,
		VaR99:               var99,
		ExpectedShortfall95: tailMean(errs, var95),
	}
}

// tailMean averages the sorted errors at or below the cutoff.
func tailMean(sorted []float64, cutoff float64) float64 {
	sum := 0.0
	count := 0
	for _, e := range sorted {
		if e > cutoff {
			break
		}
		sum += e
		count++
	}
	if count == 0 {
		return cutoff
	}
	return sum / float64(count)
}
