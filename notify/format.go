package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantfx/fxsignal/marketdata"
	"github.com/quantfx/fxsignal/risk"
	"github.com/quantfx/fxsignal/signal"
)

const divider = "----------------------------------------"

// FormatSignal renders a trade signal as the Telegram Markdown message
// pushed to subscribers.
func FormatSignal(sig signal.TradeSignal, timeframe string, source marketdata.Source, now time.Time) string {
	rrr := "N/A"
	if ratio := risk.RR(sig.Entry, sig.StopLoss, sig.TakeProfit); ratio > 0 {
		rrr = fmt.Sprintf("%.2f", ratio)
	}

	srcLabel := "Live"
	if source == marketdata.SourceMock {
		srcLabel = "Mock"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*New Signal: %s (%s)*\n", sig.Pair, timeframe)
	fmt.Fprintf(&b, "*Strategy:* %s\n", sig.Strategy.Name())
	fmt.Fprintf(&b, "*Direction:* %s\n", sig.Action)
	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "- *Entry:* `%.5f`\n", sig.Entry)
	fmt.Fprintf(&b, "- *Stop Loss:* `%.5f`\n", sig.StopLoss)
	fmt.Fprintf(&b, "- *Take Profit:* `%.5f`\n", sig.TakeProfit)
	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "*Risk/Reward Ratio:* %s\n", rrr)
	fmt.Fprintf(&b, "*Lot Size:* %.2f\n", sig.LotSize)
	fmt.Fprintln(&b, divider)
	fmt.Fprintln(&b, "*Analysis:*")
	fmt.Fprintf(&b, "- *Trend:* %s\n", sig.Trend)
	fmt.Fprintf(&b, "- *MACD:* %s\n", confirmLabel(sig.MACDConfirmation))
	fmt.Fprintf(&b, "- *Bollinger:* %s\n", confirmLabel(sig.BollingerConfirmation))
	fmt.Fprintf(&b, "- *Data:* %s\n", srcLabel)
	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "*Generated: %s*", now.UTC().Format("2006-01-02 15:04 UTC"))

	return b.String()
}

func confirmLabel(confirmed bool) string {
	if confirmed {
		return "Confirmed"
	}
	return "Divergent"
}
