package backtest

import (
	"fmt"
	"io"
)

// Results is the aggregated outcome of one backtest run.
type Results struct {
	CurrencyPair string
	Timeframe    string

	TotalTrades int
	Wins        int
	Losses      int
	WinRate     float64 // percent

	NetProfit float64
	AvgWin    float64
	AvgLoss   float64

	BarsAnalyzed int
}

// Profitable reports whether the run finished with a positive net profit.
func (r Results) Profitable() bool {
	return r.NetProfit > 0
}

// Print writes a plain-text report of the run to w.
func Print(w io.Writer, r Results) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Results")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Pair:          %s\n", r.CurrencyPair)
	fmt.Fprintf(w, "Timeframe:     %s\n", r.Timeframe)
	fmt.Fprintf(w, "Bars Analyzed: %d\n", r.BarsAnalyzed)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.TotalTrades)
	fmt.Fprintf(w, "Wins:          %d\n", r.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRate)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Profit & Loss")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Net Profit:    $%.2f\n", r.NetProfit)
	fmt.Fprintf(w, "Average Win:   $%.2f\n", r.AvgWin)
	fmt.Fprintf(w, "Average Loss:  $%.2f\n", r.AvgLoss)

	verdict := "Not Profitable"
	if r.Profitable() {
		verdict = "Profitable"
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Verdict:       %s\n", verdict)
	fmt.Fprintln(w, "==================================================")
}
