// Package indicators provides the technical analysis calculations used to
// derive per-bar indicator values from raw OHLC data.
package indicators

import (
	"fmt"
	"math"

	"github.com/quantfx/fxsignal/market"
)

// Standard periods used throughout the toolchain. These match the values
// the Twelve Data endpoints are queried with, so locally computed series
// and provider-supplied series line up.
const (
	EMAFastPeriod    = 20
	EMASlowPeriod    = 50
	RSIPeriod        = 14
	ATRPeriod        = 14
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	BollingerPeriod  = 20
	BollingerStdDev  = 2.0
)

// SMA calculates the Simple Moving Average of the closes over period.
func SMA(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period, len(bars))
	}

	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += bars[i].Close
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average of the closes over period.
func EMA(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period, len(bars))
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	series := emaSeries(closes, period)
	return series[len(series)-1], nil
}

// ATR calculates the Average True Range over period using Wilder smoothing.
func ATR(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period+1 {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period+1, len(bars))
	}

	series := atrSeries(bars, period)
	return series[len(series)-1], nil
}

// RSI calculates the Relative Strength Index over period using Wilder
// smoothing. The result is in [0, 100].
func RSI(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period+1 {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period+1, len(bars))
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	series := rsiSeries(closes, period)
	return series[len(series)-1], nil
}

// MACDHistogram calculates the latest MACD histogram value, the distance
// between the MACD line (fast EMA - slow EMA) and its signal line.
func MACDHistogram(bars []market.Bar) (float64, error) {
	if len(bars) < MACDSlowPeriod+MACDSignalPeriod {
		return 0, fmt.Errorf("not enough bars: need %d, got %d",
			MACDSlowPeriod+MACDSignalPeriod, len(bars))
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	series := macdHistogramSeries(closes)
	return series[len(series)-1], nil
}

// Bollinger calculates the latest Bollinger Band envelope: the SMA over
// period shifted up and down by stdDev standard deviations.
func Bollinger(bars []market.Bar, period int, stdDev float64) (upper, lower float64, err error) {
	if period <= 0 {
		return 0, 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period {
		return 0, 0, fmt.Errorf("not enough bars: need %d, got %d", period, len(bars))
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	u, l := bollingerAt(closes, len(closes)-1, period, stdDev)
	return u, l, nil
}

// Annotate fills the indicator fields of every bar in place, walking the
// series once per indicator. Early bars are seeded from the partial window
// so the values are defined everywhere, if less meaningful during warmup.
func Annotate(bars []market.Bar) {
	if len(bars) == 0 {
		return
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	ema20 := emaSeries(closes, EMAFastPeriod)
	ema50 := emaSeries(closes, EMASlowPeriod)
	rsi := rsiSeries(closes, RSIPeriod)
	atr := atrSeries(bars, ATRPeriod)
	macd := macdHistogramSeries(closes)

	for i := range bars {
		bars[i].EMA20 = ema20[i]
		bars[i].EMA50 = ema50[i]
		bars[i].RSI = rsi[i]
		bars[i].ATR = atr[i]
		bars[i].MACDHistogram = macd[i]
		bars[i].BollingerUpper, bars[i].BollingerLower =
			bollingerAt(closes, i, BollingerPeriod, BollingerStdDev)
	}
}

// emaSeries returns the EMA of values at every index. Indexes before the
// warmup window hold the running average of the values seen so far.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	multiplier := 2.0 / float64(period+1)

	sum := 0.0
	for i, v := range values {
		if i < period {
			sum += v
			out[i] = sum / float64(i+1)
			continue
		}
		out[i] = (v-out[i-1])*multiplier + out[i-1]
	}
	return out
}

// rsiSeries returns the Wilder-smoothed RSI of values at every index.
func rsiSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	out[0] = 50 // no change information yet

	var avgGain, avgLoss float64
	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		if i <= period {
			// Simple average during warmup.
			avgGain = (avgGain*float64(i-1) + gain) / float64(i)
			avgLoss = (avgLoss*float64(i-1) + loss) / float64(i)
		} else {
			avgGain = (avgGain*float64(period-1) + gain) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		}

		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// atrSeries returns the Wilder-smoothed ATR of bars at every index.
func atrSeries(bars []market.Bar, period int) []float64 {
	out := make([]float64, len(bars))
	if len(bars) == 0 {
		return out
	}

	out[0] = bars[0].High - bars[0].Low

	var atr float64
	for i := 1; i < len(bars); i++ {
		tr := trueRange(bars[i], bars[i-1])
		if i <= period {
			atr = (atr*float64(i-1) + tr) / float64(i)
		} else {
			atr = (atr*float64(period-1) + tr) / float64(period)
		}
		out[i] = atr
	}
	return out
}

// macdHistogramSeries returns MACD-line minus signal-line at every index.
func macdHistogramSeries(values []float64) []float64 {
	fast := emaSeries(values, MACDFastPeriod)
	slow := emaSeries(values, MACDSlowPeriod)

	macdLine := make([]float64, len(values))
	for i := range values {
		macdLine[i] = fast[i] - slow[i]
	}

	signal := emaSeries(macdLine, MACDSignalPeriod)

	out := make([]float64, len(values))
	for i := range values {
		out[i] = macdLine[i] - signal[i]
	}
	return out
}

// bollingerAt computes the band envelope at index i over a trailing window
// of up to period values.
func bollingerAt(values []float64, i, period int, stdDev float64) (upper, lower float64) {
	start := i - period + 1
	if start < 0 {
		start = 0
	}
	window := values[start : i+1]

	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))

	variance := 0.0
	for _, v := range window {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(window))
	sigma := math.Sqrt(variance)

	return mean + stdDev*sigma, mean - stdDev*sigma
}

// trueRange calculates the True Range for a bar given the previous bar.
func trueRange(current, previous market.Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}
