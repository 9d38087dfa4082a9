package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs

		wantLot  float64
		wantPips float64
		wantRisk float64
	}{
		{
			name: "standard pair",
			in: Inputs{
				Pair: "EUR/USD", Balance: 10000, RiskPct: 1,
				Entry: 1.1000, Stop: 1.0985,
			},
			wantLot:  0.6667,
			wantPips: 15,
			wantRisk: 100,
		},
		{
			name: "jpy pair uses 0.01 pips",
			in: Inputs{
				Pair: "USD/JPY", Balance: 10000, RiskPct: 1,
				Entry: 157.000, Stop: 156.775,
			},
			wantLot:  0.4444,
			wantPips: 22.5,
			wantRisk: 100,
		},
		{
			name: "half percent risk",
			in: Inputs{
				Pair: "GBP/USD", Balance: 20000, RiskPct: 0.5,
				Entry: 1.2700, Stop: 1.2680,
			},
			wantLot:  0.5,
			wantPips: 20,
			wantRisk: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Calculate(tt.in)
			assert.InDelta(t, tt.wantLot, res.LotSize, 1e-3)
			assert.InDelta(t, tt.wantPips, res.StopPips, 1e-6)
			assert.InDelta(t, tt.wantRisk, res.RiskAmount, 1e-9)
		})
	}
}

func TestCalculate_Clamping(t *testing.T) {
	// A fraction-of-a-pip stop on a large account explodes the raw size.
	huge := Calculate(Inputs{
		Pair: "EUR/USD", Balance: 1_000_000, RiskPct: 2,
		Entry: 1.10000, Stop: 1.09999,
	})
	assert.Equal(t, MaxLot, huge.LotSize)

	// A hundreds-of-pips stop on a small account rounds up to the minimum.
	tiny := Calculate(Inputs{
		Pair: "EUR/USD", Balance: 100, RiskPct: 0.5,
		Entry: 1.1000, Stop: 1.0500,
	})
	assert.Equal(t, MinLot, tiny.LotSize)
}

func TestCalculate_ZeroStopDistance(t *testing.T) {
	res := Calculate(Inputs{
		Pair: "EUR/USD", Balance: 10000, RiskPct: 1,
		Entry: 1.1000, Stop: 1.1000,
	})

	assert.Zero(t, res.StopPips)
	assert.Equal(t, MinLot, res.LotSize) // raw 0 lifted by the clamp
}

func TestRR(t *testing.T) {
	assert.InDelta(t, 1.5, RR(1.1000, 1.0985, 1.10225), 1e-9)
	assert.InDelta(t, 1.5, RR(1.1000, 1.1015, 1.09775), 1e-9)
	assert.Zero(t, RR(1.1, 1.1, 1.2))
}

func TestClamp_NaNPassesThrough(t *testing.T) {
	assert.True(t, math.IsNaN(Clamp(math.NaN())))
}
