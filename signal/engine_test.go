package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfx/fxsignal/market"
	"github.com/quantfx/fxsignal/risk"
)

var defaultParams = risk.Parameters{AccountBalance: 10000, RiskPercentage: 1}

// bullishSnapshot is a healthy uptrend: EMA20 above EMA50, RSI mid-range,
// price just under the fast EMA.
func bullishSnapshot() market.IndicatorSnapshot {
	return market.IndicatorSnapshot{
		CurrentPrice:   1.1000,
		EMA20:          1.1010,
		EMA50:          1.0990,
		RSI:            45,
		ATR:            0.0010,
		MACDHistogram:  0.0002,
		BollingerUpper: 1.1050,
		BollingerLower: 1.0950,
	}
}

func TestGenerate_TrendBuy(t *testing.T) {
	sig := Generate("EUR/USD", bullishSnapshot(), StrategyTrend, defaultParams)

	assert.Equal(t, TrendBullish, sig.Trend)
	assert.Equal(t, ActionBuy, sig.Action)
	assert.Equal(t, StrategyTrend, sig.Strategy)

	assert.InDelta(t, 1.1000, sig.Entry, 1e-9)
	assert.InDelta(t, 1.0985, sig.StopLoss, 1e-9)
	assert.InDelta(t, 1.10225, sig.TakeProfit, 1e-9)

	// $100 at risk over a 15 pip stop at $10/pip/lot.
	assert.InDelta(t, 0.6667, sig.LotSize, 1e-3)

	assert.True(t, sig.MACDConfirmation)
	assert.True(t, sig.BollingerConfirmation)
}

func TestGenerate_TrendSell(t *testing.T) {
	snap := bullishSnapshot()
	snap.EMA20 = 1.0980 // below EMA50: bearish
	snap.RSI = 75       // trend strategy sells any bearish RSI above 30
	snap.MACDHistogram = -0.0002

	sig := Generate("EUR/USD", snap, StrategyTrend, defaultParams)

	assert.Equal(t, TrendBearish, sig.Trend)
	assert.Equal(t, ActionSell, sig.Action)
	assert.InDelta(t, 1.1015, sig.StopLoss, 1e-9)
	assert.InDelta(t, 1.09775, sig.TakeProfit, 1e-9)
	assert.True(t, sig.MACDConfirmation)
	assert.True(t, sig.BollingerConfirmation) // price 1.1000 > EMA20 1.0980
}

func TestGenerate_BreakoutHoldInsideBands(t *testing.T) {
	sig := Generate("EUR/USD", bullishSnapshot(), StrategyBreakout, defaultParams)

	assert.Equal(t, ActionHold, sig.Action)
	assert.Zero(t, sig.LotSize)
	assert.Equal(t, sig.Entry, sig.StopLoss)
	assert.Equal(t, sig.Entry, sig.TakeProfit)
	assert.InDelta(t, 1.1000, sig.Entry, 1e-9)
}

func TestGenerate_EntryRules(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		mutate   func(*market.IndicatorSnapshot)
		want     Action
	}{
		{"trend bullish overbought holds", StrategyTrend,
			func(s *market.IndicatorSnapshot) { s.RSI = 72 }, ActionHold},
		{"trend neutral holds", StrategyTrend,
			func(s *market.IndicatorSnapshot) { s.EMA20 = s.EMA50 }, ActionHold},
		{"reversion bullish mid-range holds", StrategyReversion,
			func(s *market.IndicatorSnapshot) {}, ActionHold},
		{"reversion bullish oversold buys", StrategyReversion,
			func(s *market.IndicatorSnapshot) { s.RSI = 25 }, ActionBuy},
		{"reversion bearish overbought sells", StrategyReversion,
			func(s *market.IndicatorSnapshot) { s.EMA20 = 1.0980; s.RSI = 75 }, ActionSell},
		{"breakout above upper band buys", StrategyBreakout,
			func(s *market.IndicatorSnapshot) { s.CurrentPrice = 1.1060 }, ActionBuy},
		{"breakout below lower band sells", StrategyBreakout,
			func(s *market.IndicatorSnapshot) { s.CurrentPrice = 1.0940 }, ActionSell},
		{"unknown strategy holds", Strategy("scalping"),
			func(s *market.IndicatorSnapshot) {}, ActionHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := bullishSnapshot()
			tt.mutate(&snap)

			sig := Generate("EUR/USD", snap, tt.strategy, defaultParams)
			assert.Equal(t, tt.want, sig.Action)
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	snap := bullishSnapshot()

	first := Generate("EUR/USD", snap, StrategyTrend, defaultParams)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Generate("EUR/USD", snap, StrategyTrend, defaultParams))
	}
}

func TestGenerate_HoldInvariant(t *testing.T) {
	for _, strategy := range Strategies {
		snap := bullishSnapshot()
		snap.EMA20 = snap.EMA50 // neutral kills trend/reversion entries
		snap.RSI = 50

		sig := Generate("EUR/USD", snap, strategy, defaultParams)
		if sig.Action != ActionHold {
			continue
		}

		assert.Zero(t, sig.LotSize, "strategy %s", strategy)
		assert.Equal(t, snap.CurrentPrice, sig.Entry)
		assert.Equal(t, sig.Entry, sig.StopLoss)
		assert.Equal(t, sig.Entry, sig.TakeProfit)
	}
}

func TestGenerate_LotSizeBounds(t *testing.T) {
	tests := []struct {
		name    string
		atr     float64
		balance float64
		wantLot float64
	}{
		{"tiny stop clamps to max", 0.0000001, 1_000_000, risk.MaxLot},
		{"huge stop clamps to min", 0.5, 100, risk.MinLot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := bullishSnapshot()
			snap.ATR = tt.atr

			sig := Generate("EUR/USD", snap, StrategyTrend,
				risk.Parameters{AccountBalance: tt.balance, RiskPercentage: 1})
			require.Equal(t, ActionBuy, sig.Action)
			assert.InDelta(t, tt.wantLot, sig.LotSize, 1e-9)
		})
	}
}

func TestGenerate_RiskRewardInvariant(t *testing.T) {
	for _, snap := range []market.IndicatorSnapshot{
		bullishSnapshot(),
		{CurrentPrice: 157.10, EMA20: 156.90, EMA50: 157.20, RSI: 55, ATR: 0.15},
	} {
		for _, strategy := range []Strategy{StrategyTrend, StrategyReversion, StrategyBreakout} {
			sig := Generate("USD/JPY", snap, strategy, defaultParams)
			if sig.Action == ActionHold {
				continue
			}

			reward := math.Abs(sig.TakeProfit - sig.Entry)
			riskDist := math.Abs(sig.Entry - sig.StopLoss)
			assert.InDelta(t, RiskRewardRatio*riskDist, reward, 1e-9)
		}
	}
}

func TestGenerate_JPYPipSizing(t *testing.T) {
	snap := market.IndicatorSnapshot{
		CurrentPrice: 157.00,
		EMA20:        157.10,
		EMA50:        156.80,
		RSI:          50,
		ATR:          0.15,
	}

	sig := Generate("USD/JPY", snap, StrategyTrend, defaultParams)
	require.Equal(t, ActionBuy, sig.Action)

	// Stop distance 0.225 is 22.5 pips at the JPY pip size of 0.01.
	assert.InDelta(t, 100.0/(22.5*10), sig.LotSize, 1e-9)
}

func TestGenerate_NaNSnapshotHolds(t *testing.T) {
	nan := math.NaN()
	snap := market.IndicatorSnapshot{
		CurrentPrice: nan, EMA20: nan, EMA50: nan, RSI: nan,
		ATR: nan, MACDHistogram: nan, BollingerUpper: nan, BollingerLower: nan,
	}

	for _, strategy := range Strategies {
		sig := Generate("EUR/USD", snap, strategy, defaultParams)

		assert.Equal(t, ActionHold, sig.Action, "strategy %s", strategy)
		assert.Zero(t, sig.LotSize)
		assert.True(t, math.IsNaN(sig.Entry))
		assert.False(t, sig.MACDConfirmation)
		assert.False(t, sig.BollingerConfirmation)
	}
}

func TestGenerate_ConfirmationsInformational(t *testing.T) {
	snap := bullishSnapshot()
	snap.MACDHistogram = -0.0002 // diverges from the buy
	snap.CurrentPrice = 1.1020   // above EMA20: no bollinger support

	sig := Generate("EUR/USD", snap, StrategyTrend, defaultParams)

	// Divergent confirmations never change the action.
	assert.Equal(t, ActionBuy, sig.Action)
	assert.False(t, sig.MACDConfirmation)
	assert.False(t, sig.BollingerConfirmation)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"trend", StrategyTrend, false},
		{"  Reversion ", StrategyReversion, false},
		{"BREAKOUT", StrategyBreakout, false},
		{"momentum", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
