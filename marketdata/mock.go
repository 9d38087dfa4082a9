package marketdata

import (
	"math/rand"
	"time"

	"github.com/quantfx/fxsignal/indicators"
	"github.com/quantfx/fxsignal/market"
)

// mockVolatility is the per-bar random-walk factor for generated series.
const mockVolatility = 0.005

// MockSeries generates a plausible random-walk bar series for a pair,
// seeded so tests and repeated demo runs are reproducible. Bars are hourly,
// oldest first, ending at end, with indicator values derived the same way
// as for live series.
func MockSeries(pair string, n int, end time.Time, seed int64) []market.Bar {
	rng := rand.New(rand.NewSource(seed))

	base := market.BasePrice(pair)
	price := base * (1 + (rng.Float64()-0.5)*0.05)

	bars := make([]market.Bar, n)
	for i := range bars {
		open := price

		// Slight upward drift keeps the walk from collapsing, as in the
		// original generator.
		movement := (rng.Float64() - 0.49) * mockVolatility
		price *= 1 + movement

		high := open
		low := price
		if price > open {
			high, low = price, open
		}
		// Wick beyond the body on both sides.
		wick := base * mockVolatility * 0.2 * rng.Float64()

		bars[i] = market.Bar{
			Time:  end.Add(-time.Duration(n-1-i) * time.Hour),
			Open:  open,
			High:  high + wick,
			Low:   low - wick,
			Close: price,
		}
	}

	indicators.Annotate(bars)
	return bars
}

// MockLatest generates a mock indicator snapshot for a pair, consistent
// with the tail of a MockSeries walk.
func MockLatest(pair string, seed int64) market.IndicatorSnapshot {
	series := MockSeries(pair, 100, time.Now().UTC().Truncate(time.Hour), seed)
	return series[len(series)-1].Snapshot()
}
