package marketdata

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quantfx/fxsignal/market"
)

// Source identifies where a response came from.
type Source string

const (
	SourceLive Source = "live"
	SourceMock Source = "mock"
)

// Provider serves market data from the live API when possible and from the
// mock generator otherwise. Callers always learn which source answered, so
// mock-based signals can be labeled as such downstream.
type Provider struct {
	client *Client
	log    *zap.Logger

	// seed pins the mock generator; zero means derive from the clock.
	seed int64
}

// NewProvider creates a provider. A nil client means mock-only operation
// (no API key configured).
func NewProvider(client *Client, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{client: client, log: log}
}

// NewMockProvider creates a provider that always serves seeded mock data.
func NewMockProvider(seed int64, log *zap.Logger) *Provider {
	p := NewProvider(nil, log)
	p.seed = seed
	return p
}

func (p *Provider) mockSeed() int64 {
	if p.seed != 0 {
		return p.seed
	}
	return time.Now().UnixNano()
}

// Latest returns the current indicator snapshot for a pair.
func (p *Provider) Latest(ctx context.Context, pair, timeframe string) (market.IndicatorSnapshot, Source, error) {
	if p.client != nil {
		snap, err := p.client.Latest(ctx, pair, timeframe)
		if err == nil {
			return snap, SourceLive, nil
		}
		p.log.Warn("live indicator fetch failed, falling back to mock data",
			zap.String("pair", pair),
			zap.String("timeframe", timeframe),
			zap.Error(err))
	}

	return MockLatest(pair, p.mockSeed()), SourceMock, nil
}

// Series returns the most recent n bars for a pair, oldest first.
func (p *Provider) Series(ctx context.Context, pair, timeframe string, n int) ([]market.Bar, Source, error) {
	if p.client != nil {
		bars, err := p.client.Series(ctx, pair, timeframe, n)
		if err == nil {
			return bars, SourceLive, nil
		}
		p.log.Warn("live series fetch failed, falling back to mock data",
			zap.String("pair", pair),
			zap.String("timeframe", timeframe),
			zap.Int("bars", n),
			zap.Error(err))
	}

	end := time.Now().UTC().Truncate(time.Hour)
	return MockSeries(pair, n, end, p.mockSeed()), SourceMock, nil
}
