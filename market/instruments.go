// Package market defines the instruments, bar data and trading-session
// helpers shared by the signal engine, the backtester and the data providers.
package market

import "strings"

type InstrumentMeta struct {
	Pair          string
	BaseCurrency  string
	QuoteCurrency string

	// PipMultiplier converts a price distance to pips: 100 for JPY-quoted
	// pairs (pip = 0.01), 10000 for everything else (pip = 0.0001).
	PipMultiplier float64

	// BasePrice is a representative quote used to seed mock data.
	BasePrice float64
}

var Instruments = map[string]InstrumentMeta{
	"EUR/USD": {Pair: "EUR/USD", BaseCurrency: "EUR", QuoteCurrency: "USD", PipMultiplier: 10000, BasePrice: 1.08},
	"GBP/USD": {Pair: "GBP/USD", BaseCurrency: "GBP", QuoteCurrency: "USD", PipMultiplier: 10000, BasePrice: 1.27},
	"USD/JPY": {Pair: "USD/JPY", BaseCurrency: "USD", QuoteCurrency: "JPY", PipMultiplier: 100, BasePrice: 157.0},
	"USD/CAD": {Pair: "USD/CAD", BaseCurrency: "USD", QuoteCurrency: "CAD", PipMultiplier: 10000, BasePrice: 1.36},
	"USD/CHF": {Pair: "USD/CHF", BaseCurrency: "USD", QuoteCurrency: "CHF", PipMultiplier: 10000, BasePrice: 0.88},
	"AUD/USD": {Pair: "AUD/USD", BaseCurrency: "AUD", QuoteCurrency: "USD", PipMultiplier: 10000, BasePrice: 0.66},
	"NZD/USD": {Pair: "NZD/USD", BaseCurrency: "NZD", QuoteCurrency: "USD", PipMultiplier: 10000, BasePrice: 0.60},
}

// CurrencyPairs lists the supported pairs in display order.
var CurrencyPairs = []string{
	"EUR/USD", "GBP/USD", "USD/JPY", "USD/CAD", "USD/CHF", "AUD/USD", "NZD/USD",
}

// Timeframes lists the supported chart timeframes.
var Timeframes = []string{"1M", "5M", "15M", "30M", "1H", "4H", "1D", "1W"}

// PipMultiplier returns the price-to-pip conversion factor for a pair.
// Unknown pairs fall back on the quote currency heuristic used by the
// signal engine: JPY quotes use 0.01 pips, everything else 0.0001.
func PipMultiplier(pair string) float64 {
	if meta, ok := Instruments[pair]; ok {
		return meta.PipMultiplier
	}
	if strings.Contains(pair, "JPY") {
		return 100
	}
	return 10000
}

// BasePrice returns a plausible quote for a pair, for mock data seeding.
func BasePrice(pair string) float64 {
	if meta, ok := Instruments[pair]; ok {
		return meta.BasePrice
	}
	return 1.2
}

// ValidPair reports whether the pair is in the supported set.
func ValidPair(pair string) bool {
	_, ok := Instruments[pair]
	return ok
}

// ValidTimeframe reports whether tf is a supported chart timeframe.
func ValidTimeframe(tf string) bool {
	for _, t := range Timeframes {
		if t == tf {
			return true
		}
	}
	return false
}
