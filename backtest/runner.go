// Package backtest replays a historical bar series through the signal
// engine and simulates trade outcomes bar by bar, one open position at a
// time.
package backtest

import (
	"fmt"
	"math"

	"github.com/quantfx/fxsignal/market"
	"github.com/quantfx/fxsignal/risk"
	"github.com/quantfx/fxsignal/signal"
)

// MinBars is the minimum series length for a meaningful run.
const MinBars = 50

// priceToPips converts a price distance to pips for P/L accounting,
// treating every instrument as a 5-decimal quote pair. JPY pairs use a
// different pip definition in the sizing model but not here; the mismatch
// is long-standing and is preserved rather than silently corrected.
const priceToPips = 100000

// InsufficientDataError reports a series too short to backtest. It is a
// recoverable condition for the caller to surface, not a crash.
type InsufficientDataError struct {
	Bars int
	Min  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough historical data: got %d bars, need at least %d", e.Bars, e.Min)
}

// openTrade is the single position a run may hold.
type openTrade struct {
	sig       signal.TradeSignal
	direction signal.Action // Buy or Sell
}

// state is the mutable bookkeeping for one run. It is created at run start
// and discarded after aggregation; runs never share it.
type state struct {
	active *openTrade

	wins           int
	losses         int
	totalWinAmount float64
	totalLossAmt   float64
}

// Run replays the series through the signal engine and returns aggregated
// statistics. It returns *InsufficientDataError when the series is shorter
// than MinBars.
//
// The loop walks bars 1..len-1 treating bar i-1 as the signal basis and bar
// i as the bar the signal lives through: a signal generated at the close of
// bar i-1 is tested for exit against bar i's high/low range, which avoids
// lookahead. Exits are evaluated before entries within a bar, and the stop
// is checked before the target, the conservative tie-break when both fall
// inside one bar's range.
//
// A position still open at the final bar is dropped uncounted. That
// truncation slightly biases results on strongly trending series and is
// kept for compatibility with the historical behavior of this engine.
func Run(series []market.Bar, pair, timeframe string, strategy signal.Strategy, params risk.Parameters) (Results, error) {
	if len(series) < MinBars {
		return Results{}, &InsufficientDataError{Bars: len(series), Min: MinBars}
	}

	var st state

	for i := 1; i < len(series); i++ {
		bar := series[i]

		if st.active != nil {
			st.checkExit(bar)
		}

		if st.active == nil {
			st.checkEntry(series[i-1], pair, strategy, params)
		}
	}

	return st.results(pair, timeframe, len(series)), nil
}

// checkExit tests the open position's stop and target against one bar's
// range, closing it as a loss or a win.
func (st *state) checkExit(bar market.Bar) {
	t := st.active

	switch t.direction {
	case signal.ActionBuy:
		if bar.Low <= t.sig.StopLoss {
			st.close(t, t.sig.StopLoss, false)
		} else if bar.High >= t.sig.TakeProfit {
			st.close(t, t.sig.TakeProfit, true)
		}
	case signal.ActionSell:
		if bar.High >= t.sig.StopLoss {
			st.close(t, t.sig.StopLoss, false)
		} else if bar.Low <= t.sig.TakeProfit {
			st.close(t, t.sig.TakeProfit, true)
		}
	}
}

func (st *state) close(t *openTrade, exit float64, won bool) {
	amount := math.Abs(exit-t.sig.Entry) * priceToPips * t.sig.LotSize

	if won {
		st.wins++
		st.totalWinAmount += amount
	} else {
		st.losses++
		st.totalLossAmt += amount
	}
	st.active = nil
}

// checkEntry generates a signal off the previous bar's close and opens a
// position when it says Buy or Sell.
func (st *state) checkEntry(basis market.Bar, pair string, strategy signal.Strategy, params risk.Parameters) {
	sig := signal.Generate(pair, basis.Snapshot(), strategy, params)
	if sig.Action != signal.ActionBuy && sig.Action != signal.ActionSell {
		return
	}

	st.active = &openTrade{sig: sig, direction: sig.Action}
}

func (st *state) results(pair, timeframe string, bars int) Results {
	total := st.wins + st.losses

	winRate := 0.0
	if total > 0 {
		winRate = float64(st.wins) / float64(total) * 100
	}
	avgWin := 0.0
	if st.wins > 0 {
		avgWin = st.totalWinAmount / float64(st.wins)
	}
	avgLoss := 0.0
	if st.losses > 0 {
		avgLoss = st.totalLossAmt / float64(st.losses)
	}

	return Results{
		CurrencyPair: pair,
		Timeframe:    timeframe,
		TotalTrades:  total,
		Wins:         st.wins,
		Losses:       st.losses,
		WinRate:      winRate,
		NetProfit:    st.totalWinAmount - st.totalLossAmt,
		AvgWin:       avgWin,
		AvgLoss:      avgLoss,
		BarsAnalyzed: bars,
	}
}
