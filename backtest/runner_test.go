package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfx/fxsignal/market"
	"github.com/quantfx/fxsignal/risk"
	"github.com/quantfx/fxsignal/signal"
)

var testParams = risk.Parameters{AccountBalance: 10000, RiskPercentage: 1}

// flatSeries builds n quiet bars that never trigger an entry (neutral trend,
// mid-range RSI, price inside the bands) and never touch the stop or target
// of the trades the tests open (1.0985 / 1.10225 long, 1.1015 / 1.09775 short).
func flatSeries(n int) []market.Bar {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	bars := make([]market.Bar, n)
	for i := range bars {
		bars[i] = market.Bar{
			Time:           base.Add(time.Duration(i) * time.Hour),
			Open:           1.1000,
			High:           1.1000,
			Low:            1.1000,
			Close:          1.1000,
			EMA20:          1.1000,
			EMA50:          1.1000,
			RSI:            50,
			ATR:            0.0010,
			BollingerUpper: 1.2000,
			BollingerLower: 1.0000,
		}
	}
	return bars
}

// makeBullish turns a bar into a long signal basis: entry 1.1000,
// stop 1.0985, target 1.10225.
func makeBullish(b *market.Bar) {
	b.EMA20 = 1.1010
	b.EMA50 = 1.0990
	b.RSI = 45
}

// makeBearish turns a bar into a short signal basis: entry 1.1000,
// stop 1.1015, target 1.09775.
func makeBearish(b *market.Bar) {
	b.EMA20 = 1.0980
	b.EMA50 = 1.1000
	b.RSI = 50
}

func TestRun_MinimumDataGate(t *testing.T) {
	_, err := Run(flatSeries(49), "EUR/USD", "1H", signal.StrategyTrend, testParams)
	require.Error(t, err)

	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 49, insufficient.Bars)
	assert.Equal(t, MinBars, insufficient.Min)

	res, err := Run(flatSeries(50), "EUR/USD", "1H", signal.StrategyTrend, testParams)
	require.NoError(t, err)
	assert.Equal(t, 50, res.BarsAnalyzed)
	assert.Zero(t, res.TotalTrades)
}

func TestRun_LongWin(t *testing.T) {
	series := flatSeries(60)
	makeBullish(&series[9])       // entry evaluated at i=10 off bar 9
	series[15].High = 1.1030      // clears the 1.10225 target

	res, err := Run(series, "EUR/USD", "1H", signal.StrategyTrend, testParams)
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalTrades)
	assert.Equal(t, 1, res.Wins)
	assert.Zero(t, res.Losses)
	assert.InDelta(t, 100.0, res.WinRate, 1e-9)

	// 22.5 pips of profit on 2/3 of a lot at the fixed 5-decimal multiplier.
	assert.InDelta(t, 150.0, res.NetProfit, 1e-6)
	assert.InDelta(t, 150.0, res.AvgWin, 1e-6)
	assert.Zero(t, res.AvgLoss)
}

func TestRun_LongLoss(t *testing.T) {
	series := flatSeries(60)
	makeBullish(&series[9])
	series[15].Low = 1.0980 // through the 1.0985 stop

	res, err := Run(series, "EUR/USD", "1H", signal.StrategyTrend, testParams)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Losses)
	assert.Zero(t, res.Wins)

	// Losing the 15 pip stop costs exactly the $100 risked.
	assert.InDelta(t, -100.0, res.NetProfit, 1e-6)
	assert.InDelta(t, 100.0, res.AvgLoss, 1e-6)
}

func TestRun_ShortWinAndLoss(t *testing.T) {
	t.Run("win", func(t *testing.T) {
		series := flatSeries(60)
		makeBearish(&series[9])
		series[14].Low = 1.0970 // through the 1.09775 target

		res, err := Run(series, "EUR/USD", "1H", signal.StrategyTrend, testParams)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Wins)
		assert.Zero(t, res.Losses)
	})

	t.Run("loss", func(t *testing.T) {
		series := flatSeries(60)
		makeBearish(&series[9])
		series[14].High = 1.1020 // through the 1.1015 stop

		res, err := Run(series, "EUR/USD", "1H", signal.StrategyTrend, testParams)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Losses)
		assert.Zero(t, res.Wins)
	})
}

func TestRun_StopBeforeTargetSameBar(t *testing.T) {
	series := flatSeries(60)
	makeBullish(&series[9])

	// Bar 15 sweeps both levels; the stop check runs first.
	series[15].High = 1.1050
	series[15].Low = 1.0950

	res, err := Run(series, "EUR/USD", "1H", signal.StrategyTrend, testParams)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Losses)
	assert.Zero(t, res.Wins)
}

func TestRun_OpenPositionAtEndDropped(t *testing.T) {
	series := flatSeries(60)
	makeBullish(&series[9])
	// No bar ever reaches the stop or target.

	res, err := Run(series, "EUR/USD", "1H", signal.StrategyTrend, testParams)
	require.NoError(t, err)

	assert.Zero(t, res.TotalTrades)
	assert.Zero(t, res.NetProfit)
	assert.Zero(t, res.WinRate)
}

func TestRun_SinglePositionAtATime(t *testing.T) {
	series := flatSeries(60)
	// Every bar screams Buy, but only one position may be open.
	for i := range series {
		makeBullish(&series[i])
	}
	series[40].High = 1.1030 // single exit opportunity

	res, err := Run(series, "EUR/USD", "1H", signal.StrategyTrend, testParams)
	require.NoError(t, err)

	// One win from the exit at bar 40; the immediate re-entry stays open
	// through the end of the series and is dropped.
	assert.Equal(t, 1, res.Wins)
	assert.Equal(t, 1, res.TotalTrades)
}

func TestRun_Conservation(t *testing.T) {
	series := flatSeries(120)
	makeBullish(&series[9])
	series[15].Low = 1.0980 // loss

	makeBullish(&series[29])
	series[35].High = 1.1030 // win

	makeBearish(&series[59])
	series[66].Low = 1.0970 // win

	makeBearish(&series[79])
	series[85].High = 1.1020 // loss

	res, err := Run(series, "EUR/USD", "1H", signal.StrategyTrend, testParams)
	require.NoError(t, err)

	assert.Equal(t, res.Wins+res.Losses, res.TotalTrades)
	assert.Equal(t, 4, res.TotalTrades)
	assert.InDelta(t, 50.0, res.WinRate, 1e-9)

	totalWins := res.AvgWin * float64(res.Wins)
	totalLosses := res.AvgLoss * float64(res.Losses)
	assert.InDelta(t, totalWins-totalLosses, res.NetProfit, 1e-6)
}

func TestRun_ReversionAndBreakoutStrategies(t *testing.T) {
	t.Run("reversion ignores mid-range RSI", func(t *testing.T) {
		series := flatSeries(60)
		makeBullish(&series[9]) // RSI 45: trend buys, reversion holds

		res, err := Run(series, "EUR/USD", "1H", signal.StrategyReversion, testParams)
		require.NoError(t, err)
		assert.Zero(t, res.TotalTrades)
	})

	t.Run("breakout trades a band break", func(t *testing.T) {
		series := flatSeries(60)
		for i := range series {
			series[i].BollingerUpper = 1.3000 // quiet bars never break out
		}
		series[9].BollingerUpper = 1.2000
		series[9].Close = 1.2100 // basis bar closes above its upper band

		// Hold the price inside the 1.2085 stop and 1.21225 target until
		// bar 15 clears the target.
		for i := 10; i <= 15; i++ {
			series[i].Open = 1.2100
			series[i].High = 1.2100
			series[i].Low = 1.2100
			series[i].Close = 1.2100
		}
		series[15].High = 1.2200

		res, err := Run(series, "EUR/USD", "1H", signal.StrategyBreakout, testParams)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Wins)
		assert.Equal(t, 1, res.TotalTrades)
	})
}

func TestInsufficientDataError_Message(t *testing.T) {
	err := &InsufficientDataError{Bars: 30, Min: MinBars}
	assert.Contains(t, err.Error(), "30")
	assert.Contains(t, err.Error(), "50")
}
