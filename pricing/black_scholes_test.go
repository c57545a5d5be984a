package pricing_test

import (
	"math"
	"testing"

	"github.com/AlexisAHG/Quant-Option-Portfolio/models"
	"github.com/AlexisAHG/Quant-Option-Portfolio/pricing"
)

const tolerance = 1e-4

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestBlackScholesKnownValues(t *testing.T) {
	// S=100, K=100, T=1, r=0.05, sigma=0.2: d1=0.35, d2=0.15.
	t.Run("Call", func(t *testing.T) {
		g, err := pricing.BlackScholes(100, 100, 1, 0.05, 0.2, models.Call)
		if err != nil {
			t.Fatalf("BlackScholes returned an error: %v", err)
		}

		if !approxEqual(g.Price, 10.4506, tolerance) {
			t.Errorf("call price = %v, want 10.4506", g.Price)
		}
		if !approxEqual(g.Delta, 0.63683, tolerance) {
			t.Errorf("call delta = %v, want 0.63683", g.Delta)
		}
		if !approxEqual(g.Gamma, 0.018762, tolerance) {
			t.Errorf("call gamma = %v, want 0.018762", g.Gamma)
		}
		if !approxEqual(g.Vega, 0.37524, tolerance) {
			t.Errorf("call vega (per 1%% vol) = %v, want 0.37524", g.Vega)
		}
		if !approxEqual(g.Theta, -6.41403/365, tolerance) {
			t.Errorf("call theta (per day) = %v, want %v", g.Theta, -6.41403/365)
		}
		if !approxEqual(g.Rho, 0.532325, tolerance) {
			t.Errorf("call rho (per 1%% rate) = %v, want 0.532325", g.Rho)
		}
	})

	t.Run("Put", func(t *testing.T) {
		g, err := pricing.BlackScholes(100, 100, 1, 0.05, 0.2, models.Put)
		if err != nil {
			t.Fatalf("BlackScholes returned an error: %v", err)
		}

		if !approxEqual(g.Price, 5.5735, tolerance) {
			t.Errorf("put price = %v, want 5.5735", g.Price)
		}
		if !approxEqual(g.Delta, -0.36317, tolerance) {
			t.Errorf("put delta = %v, want -0.36317", g.Delta)
		}
		if !approxEqual(g.Rho, -0.418905, tolerance) {
			t.Errorf("put rho (per 1%% rate) = %v, want -0.418905", g.Rho)
		}
	})
}

func TestPutCallParity(t *testing.T) {
	cases := []struct {
		name             string
		S, K, T, r, vol  float64
	}{
		{"ATM", 100, 100, 1, 0.05, 0.2},
		{"ITMCall", 120, 100, 0.5, 0.03, 0.35},
		{"OTMCall", 80, 100, 2, 0.01, 0.15},
		{"HighVol", 100, 95, 0.25, 0.07, 0.8},
		{"NegativeRate", 100, 105, 1.5, -0.01, 0.25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			call, err := pricing.BlackScholes(tc.S, tc.K, tc.T, tc.r, tc.vol, models.Call)
			if err != nil {
				t.Fatalf("BlackScholes(call) returned an error: %v", err)
			}
			put, err := pricing.BlackScholes(tc.S, tc.K, tc.T, tc.r, tc.vol, models.Put)
			if err != nil {
				t.Fatalf("BlackScholes(put) returned an error: %v", err)
			}

			lhs := call.Price - put.Price
			rhs := tc.S - tc.K*math.Exp(-tc.r*tc.T)
			if !approxEqual(lhs, rhs, 1e-8) {
				t.Errorf("parity violated: C-P = %v, S-K*e^(-rT) = %v", lhs, rhs)
			}
		})
	}
}

func TestDeltaBounds(t *testing.T) {
	for _, S := range []float64{20, 60, 100, 150, 400} {
		for _, vol := range []float64{0.05, 0.2, 0.6, 1.5} {
			for _, T := range []float64{0.01, 0.5, 3} {
				call, err := pricing.BlackScholes(S, 100, T, 0.05, vol, models.Call)
				if err != nil {
					t.Fatalf("BlackScholes(call) returned an error: %v", err)
				}
				if call.Delta < 0 || call.Delta > 1 {
					t.Errorf("call delta %v outside [0, 1] at S=%v vol=%v T=%v", call.Delta, S, vol, T)
				}

				put, err := pricing.BlackScholes(S, 100, T, 0.05, vol, models.Put)
				if err != nil {
					t.Fatalf("BlackScholes(put) returned an error: %v", err)
				}
				if put.Delta < -1 || put.Delta > 0 {
					t.Errorf("put delta %v outside [-1, 0] at S=%v vol=%v T=%v", put.Delta, S, vol, T)
				}
			}
		}
	}
}

func TestBlackScholesDegenerate(t *testing.T) {
	t.Run("ZeroMaturity", func(t *testing.T) {
		g, err := pricing.BlackScholes(100, 100, 0, 0.05, 0.2, models.Call)
		if err != nil {
			t.Fatalf("BlackScholes returned an error: %v", err)
		}
		if !g.Degenerate {
			t.Errorf("expected the degenerate flag for T=0")
		}
		if g.Price != 0 || g.Delta != 0 || g.Gamma != 0 || g.Vega != 0 || g.Theta != 0 || g.Rho != 0 {
			t.Errorf("degenerate result not all-zero: %+v", g)
		}
	})

	t.Run("ZeroVolatility", func(t *testing.T) {
		g, err := pricing.BlackScholes(100, 100, 1, 0.05, 0, models.Put)
		if err != nil {
			t.Fatalf("BlackScholes returned an error: %v", err)
		}
		if !g.Degenerate {
			t.Errorf("expected the degenerate flag for sigma=0")
		}
	})
}

func TestBlackScholesInvalidParameters(t *testing.T) {
	if _, err := pricing.BlackScholes(0, 100, 1, 0.05, 0.2, models.Call); err == nil {
		t.Errorf("expected an error for zero spot")
	}
	if _, err := pricing.BlackScholes(100, -100, 1, 0.05, 0.2, models.Call); err == nil {
		t.Errorf("expected an error for negative strike")
	}
}
