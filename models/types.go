package models

import "math"

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// Payoff returns the option's intrinsic value at the given spot.
func (o OptionType) Payoff(spot, strike float64) float64 {
	if o == Call {
		return math.Max(spot-strike, 0)
	}
	return math.Max(strike-spot, 0)
}
