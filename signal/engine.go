package signal

import (
	"github.com/quantfx/fxsignal/market"
	"github.com/quantfx/fxsignal/risk"
)

const (
	// ATRMultiplier sets the stop distance as a multiple of ATR.
	ATRMultiplier = 1.5

	// RiskRewardRatio sets the target distance as a multiple of the stop
	// distance.
	RiskRewardRatio = 1.5
)

// entryRule decides the action for one strategy given the classified trend
// and the snapshot. Rules are pure predicates over the snapshot; NaN inputs
// fail every comparison and fall through to Hold.
type entryRule func(trend Trend, snap market.IndicatorSnapshot) Action

// entryRules dispatches action selection per strategy. Keeping the rules in
// a table makes each one testable in isolation and keeps Generate free of
// strategy-specific branching.
var entryRules = map[Strategy]entryRule{
	StrategyTrend: func(trend Trend, snap market.IndicatorSnapshot) Action {
		switch {
		case trend == TrendBullish && snap.RSI < 70:
			return ActionBuy
		case trend == TrendBearish && snap.RSI > 30:
			return ActionSell
		default:
			return ActionHold
		}
	},
	StrategyReversion: func(trend Trend, snap market.IndicatorSnapshot) Action {
		switch {
		case trend == TrendBullish && snap.RSI < 30:
			return ActionBuy
		case trend == TrendBearish && snap.RSI > 70:
			return ActionSell
		default:
			return ActionHold
		}
	},
	StrategyBreakout: func(trend Trend, snap market.IndicatorSnapshot) Action {
		switch {
		case snap.CurrentPrice > snap.BollingerUpper:
			return ActionBuy
		case snap.CurrentPrice < snap.BollingerLower:
			return ActionSell
		default:
			return ActionHold
		}
	},
}

// Generate derives a trade signal from one indicator snapshot. It is pure
// and deterministic: identical inputs always produce identical output, and
// no numeric input causes a failure. Degenerate values (equal EMAs, NaN
// fields) resolve through the same branch logic as everything else.
func Generate(pair string, snap market.IndicatorSnapshot, strategy Strategy, params risk.Parameters) TradeSignal {
	trend := classifyTrend(snap)

	action := ActionHold
	if rule, ok := entryRules[strategy]; ok {
		action = rule(trend, snap)
	}

	entry := snap.CurrentPrice
	stop, target := priceLevels(action, entry, snap.ATR)

	lot := 0.0
	if action != ActionHold {
		lot = risk.Calculate(risk.Inputs{
			Pair:    pair,
			Balance: params.AccountBalance,
			RiskPct: params.RiskPercentage,
			Entry:   entry,
			Stop:    stop,
		}).LotSize
	}

	return TradeSignal{
		Pair:     pair,
		Trend:    trend,
		Action:   action,
		Strategy: strategy,

		Entry:      entry,
		StopLoss:   stop,
		TakeProfit: target,
		LotSize:    lot,

		MACDConfirmation:      macdConfirms(action, snap),
		BollingerConfirmation: bollingerConfirms(action, snap),
	}
}

func classifyTrend(snap market.IndicatorSnapshot) Trend {
	switch {
	case snap.EMA20 > snap.EMA50:
		return TrendBullish
	case snap.EMA20 < snap.EMA50:
		return TrendBearish
	default:
		return TrendNeutral
	}
}

// priceLevels places the stop ATRMultiplier ATRs away from entry and the
// target RiskRewardRatio times the stop distance beyond it. Hold collapses
// all levels onto the entry price.
func priceLevels(action Action, entry, atr float64) (stop, target float64) {
	switch action {
	case ActionBuy:
		stop = entry - atr*ATRMultiplier
		target = entry + (entry-stop)*RiskRewardRatio
	case ActionSell:
		stop = entry + atr*ATRMultiplier
		target = entry - (stop-entry)*RiskRewardRatio
	default:
		stop, target = entry, entry
	}
	return stop, target
}

// macdConfirms reports whether the MACD histogram supports the action.
// Informational only; it never alters the signal.
func macdConfirms(action Action, snap market.IndicatorSnapshot) bool {
	return (action == ActionBuy && snap.MACDHistogram > 0) ||
		(action == ActionSell && snap.MACDHistogram < 0)
}

// bollingerConfirms reports whether price sits on the favorable side of the
// fast EMA for the action. Informational only.
func bollingerConfirms(action Action, snap market.IndicatorSnapshot) bool {
	return (action == ActionBuy && snap.CurrentPrice < snap.EMA20) ||
		(action == ActionSell && snap.CurrentPrice > snap.EMA20)
}
