package market

import "time"

// IndicatorSnapshot is a fixed set of technical values for one instant.
// It is the only market input the signal engine reads.
type IndicatorSnapshot struct {
	CurrentPrice   float64
	EMA20          float64
	EMA50          float64
	RSI            float64
	ATR            float64
	MACDHistogram  float64
	BollingerUpper float64
	BollingerLower float64
}

// Bar is one historical candle with its derived indicator values.
type Bar struct {
	Time time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64

	EMA20          float64
	EMA50          float64
	RSI            float64
	ATR            float64
	MACDHistogram  float64
	BollingerUpper float64
	BollingerLower float64
}

// Snapshot builds the indicator snapshot as seen at this bar's close.
func (b Bar) Snapshot() IndicatorSnapshot {
	return IndicatorSnapshot{
		CurrentPrice:   b.Close,
		EMA20:          b.EMA20,
		EMA50:          b.EMA50,
		RSI:            b.RSI,
		ATR:            b.ATR,
		MACDHistogram:  b.MACDHistogram,
		BollingerUpper: b.BollingerUpper,
		BollingerLower: b.BollingerLower,
	}
}
