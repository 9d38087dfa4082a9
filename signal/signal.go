// Package signal implements the deterministic trade-signal engine: given a
// single indicator snapshot, a strategy and risk parameters it derives a
// buy/sell/hold recommendation with entry, stop, target and position size.
//
// The engine holds no state across calls and performs no I/O. Enrichment
// steps such as AI confirmation or notification are composed around it by
// the caller, never inside it.
package signal

import (
	"fmt"
	"strings"
)

// Trend classifies the market direction read from the EMA pair.
type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendBearish Trend = "Bearish"
	TrendNeutral Trend = "Neutral"
)

// Action is the trade recommendation.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionSell Action = "Sell"
	ActionHold Action = "Hold"
)

// Strategy selects which entry rule set applies. It is a closed set; the
// engine treats anything outside it as "no rule matched" and holds.
type Strategy string

const (
	StrategyTrend     Strategy = "trend"
	StrategyReversion Strategy = "reversion"
	StrategyBreakout  Strategy = "breakout"
)

// Strategies lists the supported strategies in display order.
var Strategies = []Strategy{StrategyTrend, StrategyReversion, StrategyBreakout}

// ParseStrategy maps user input to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyTrend:
		return StrategyTrend, nil
	case StrategyReversion:
		return StrategyReversion, nil
	case StrategyBreakout:
		return StrategyBreakout, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (supported: trend, reversion, breakout)", s)
	}
}

// Name returns the human-readable strategy name.
func (s Strategy) Name() string {
	switch s {
	case StrategyTrend:
		return "Trend Following"
	case StrategyReversion:
		return "Mean Reversion"
	case StrategyBreakout:
		return "Breakout"
	default:
		return string(s)
	}
}

// TradeSignal is the engine output, produced fresh on every call.
type TradeSignal struct {
	Pair     string
	Trend    Trend
	Action   Action
	Strategy Strategy

	Entry      float64
	StopLoss   float64
	TakeProfit float64
	LotSize    float64

	MACDConfirmation      bool
	BollingerConfirmation bool
}
