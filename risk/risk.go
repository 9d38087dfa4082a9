// Package risk implements risk-bounded position sizing for generated
// signals. Sizing never influences entry or exit logic; it only converts an
// account balance, a risk fraction and a stop distance into a lot size.
package risk

import (
	"math"

	"github.com/quantfx/fxsignal/market"
)

const (
	// PipValue is the account-currency value of one pip per standard lot.
	// Fixed at $10 for all pairs, matching the sizing model the signal
	// engine has always used.
	PipValue = 10.0

	// MinLot and MaxLot bound the calculated position size.
	MinLot = 0.01
	MaxLot = 100.0
)

// Parameters are the caller-supplied risk settings for one signal.
type Parameters struct {
	AccountBalance float64 // > 0
	RiskPercentage float64 // (0, 100]
}

// Inputs describe one planned trade for sizing.
type Inputs struct {
	Pair    string
	Balance float64
	RiskPct float64 // percent of balance risked, e.g. 1.0 for 1%
	Entry   float64
	Stop    float64
}

// Result is the sizing outcome.
type Result struct {
	LotSize    float64 // clamped to [MinLot, MaxLot]
	StopPips   float64
	RiskAmount float64 // account currency at risk if the stop is hit
}

// Calculate sizes a position so that hitting the stop loses close to
// RiskPct of the balance, at $10/pip/lot. A zero stop distance yields a
// zero raw size, which the clamp lifts to MinLot; callers that do not
// intend to trade must discard the result rather than rely on it.
func Calculate(in Inputs) Result {
	riskAmount := in.Balance * (in.RiskPct / 100)
	stopPips := math.Abs(in.Entry-in.Stop) * market.PipMultiplier(in.Pair)

	lot := 0.0
	if stopPips > 0 {
		lot = riskAmount / (stopPips * PipValue)
	}
	lot = Clamp(lot)

	return Result{
		LotSize:    lot,
		StopPips:   stopPips,
		RiskAmount: riskAmount,
	}
}

// Clamp bounds a lot size to [MinLot, MaxLot]. NaN passes through.
func Clamp(lot float64) float64 {
	return math.Max(MinLot, math.Min(lot, MaxLot))
}

// RR returns the reward-to-risk ratio of a planned trade, or 0 when the
// stop distance is zero.
func RR(entry, stop, takeProfit float64) float64 {
	r := math.Abs(entry - stop)
	if r == 0 {
		return 0
	}
	return math.Abs(takeProfit-entry) / r
}
