// Package journal persists generated signals and backtest runs to SQLite.
// It replaces the browser-local history of the original assistant with an
// explicit store injected at the orchestration layer; the signal engine and
// backtester never touch it.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantfx/fxsignal/backtest"
	"github.com/quantfx/fxsignal/signal"
)

// TradeStatus tracks the manually recorded outcome of a signal.
type TradeStatus string

const (
	StatusOpen TradeStatus = "open"
	StatusWon  TradeStatus = "won"
	StatusLost TradeStatus = "lost"
)

// ParseStatus maps user input to a TradeStatus.
func ParseStatus(s string) (TradeStatus, error) {
	switch st := TradeStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusOpen, StatusWon, StatusLost:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q (supported: open, won, lost)", s)
	}
}

// SignalRecord is one journaled signal.
type SignalRecord struct {
	SignalID  string
	Created   time.Time
	Pair      string
	Timeframe string
	Source    string // live or mock
	Status    TradeStatus

	Signal signal.TradeSignal
}

// BacktestRecord is one journaled backtest run.
type BacktestRecord struct {
	RunID    string
	Created  time.Time
	Strategy signal.Strategy

	Results backtest.Results
}
