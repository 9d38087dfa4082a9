// Package marketdata retrieves indicator snapshots and historical bar
// series from the Twelve Data API, falling back on locally generated mock
// data when the API is unreachable or unconfigured.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/quantfx/fxsignal/indicators"
	"github.com/quantfx/fxsignal/market"
)

// DefaultBaseURL is the Twelve Data API endpoint.
const DefaultBaseURL = "https://api.twelvedata.com"

// intervals maps chart timeframes to Twelve Data interval strings.
var intervals = map[string]string{
	"1M":  "1min",
	"5M":  "5min",
	"15M": "15min",
	"30M": "30min",
	"1H":  "1h",
	"4H":  "4h",
	"1D":  "1day",
	"1W":  "1week",
}

// Interval returns the Twelve Data interval for a chart timeframe,
// defaulting to hourly.
func Interval(timeframe string) string {
	if iv, ok := intervals[timeframe]; ok {
		return iv
	}
	return "1h"
}

// Client is a Twelve Data API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Twelve Data client. The API key is required; callers
// without one should use the mock provider instead.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint,
// used by tests.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// apiError is the JSON error body Twelve Data returns with HTTP 200.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// get performs one API call with retries and decodes the response into out.
// Transient transport failures are retried with exponential backoff for up
// to 15 seconds; API-level errors are terminal.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("%s: unexpected status %d: %s",
				endpoint, resp.StatusCode, string(body)))
		}

		// The API reports errors in-band with HTTP 200.
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Status == "error" {
			return backoff.Permanent(fmt.Errorf("%s: %s", endpoint, apiErr.Message))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("%s: decode response: %w", endpoint, err))
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 15 * time.Second

	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}

// commonParams builds the query parameters shared by every endpoint.
func commonParams(pair, timeframe string) url.Values {
	return url.Values{
		"symbol":   {pair},
		"interval": {Interval(timeframe)},
		"dp":       {"5"},
		"timezone": {"UTC"},
	}
}

type timeSeriesResponse struct {
	Values []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
	} `json:"values"`
}

type indicatorResponse struct {
	Values []map[string]string `json:"values"`
}

// Series fetches the most recent n bars for a pair, oldest first, with the
// derived indicator values computed locally over the series.
func (c *Client) Series(ctx context.Context, pair, timeframe string, n int) ([]market.Bar, error) {
	params := commonParams(pair, timeframe)
	params.Set("outputsize", strconv.Itoa(n))

	var ts timeSeriesResponse
	if err := c.get(ctx, "time_series", params, &ts); err != nil {
		return nil, err
	}
	if len(ts.Values) == 0 {
		return nil, fmt.Errorf("time_series: empty response for %s", pair)
	}

	// Twelve Data returns newest first.
	bars := make([]market.Bar, 0, len(ts.Values))
	for i := len(ts.Values) - 1; i >= 0; i-- {
		v := ts.Values[i]

		bar, err := parseBar(v.Datetime, v.Open, v.High, v.Low, v.Close)
		if err != nil {
			return nil, fmt.Errorf("time_series: %w", err)
		}
		bars = append(bars, bar)
	}

	indicators.Annotate(bars)
	return bars, nil
}

// Latest fetches the current indicator snapshot for a pair from the
// dedicated indicator endpoints.
func (c *Client) Latest(ctx context.Context, pair, timeframe string) (market.IndicatorSnapshot, error) {
	var snap market.IndicatorSnapshot

	var ts timeSeriesResponse
	params := commonParams(pair, timeframe)
	params.Set("outputsize", "1")
	if err := c.get(ctx, "time_series", params, &ts); err != nil {
		return snap, err
	}
	if len(ts.Values) == 0 {
		return snap, fmt.Errorf("time_series: empty response for %s", pair)
	}
	price, err := strconv.ParseFloat(ts.Values[0].Close, 64)
	if err != nil {
		return snap, fmt.Errorf("time_series: parse close: %w", err)
	}
	snap.CurrentPrice = price

	type query struct {
		endpoint string
		params   map[string]string
		key      string
		dst      *float64
	}
	queries := []query{
		{"ema", map[string]string{"time_period": "20"}, "ema", &snap.EMA20},
		{"ema", map[string]string{"time_period": "50"}, "ema", &snap.EMA50},
		{"rsi", map[string]string{"time_period": "14"}, "rsi", &snap.RSI},
		{"atr", map[string]string{"time_period": "14"}, "atr", &snap.ATR},
		{"macd", map[string]string{"fast_period": "12", "slow_period": "26", "signal_period": "9"}, "macd_hist", &snap.MACDHistogram},
		{"bbands", map[string]string{"time_period": "20", "sd": "2"}, "upper_band", &snap.BollingerUpper},
		{"bbands", map[string]string{"time_period": "20", "sd": "2"}, "lower_band", &snap.BollingerLower},
	}

	for _, q := range queries {
		params := commonParams(pair, timeframe)
		params.Set("outputsize", "1")
		for k, v := range q.params {
			params.Set(k, v)
		}

		var resp indicatorResponse
		if err := c.get(ctx, q.endpoint, params, &resp); err != nil {
			return snap, err
		}

		val, err := mostRecentValue(resp, q.key)
		if err != nil {
			return snap, fmt.Errorf("%s: %w", q.endpoint, err)
		}
		*q.dst = val
	}

	return snap, nil
}

func mostRecentValue(resp indicatorResponse, key string) (float64, error) {
	if len(resp.Values) == 0 {
		return 0, fmt.Errorf("empty values for %s", key)
	}
	raw, ok := resp.Values[0][key]
	if !ok {
		return 0, fmt.Errorf("no recent value for %s", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func parseBar(datetime, open, high, low, closePx string) (market.Bar, error) {
	var bar market.Bar

	t, err := parseDatetime(datetime)
	if err != nil {
		return bar, err
	}
	bar.Time = t

	fields := []struct {
		raw string
		dst *float64
	}{
		{open, &bar.Open},
		{high, &bar.High},
		{low, &bar.Low},
		{closePx, &bar.Close},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return bar, fmt.Errorf("parse price %q: %w", f.raw, err)
		}
		*f.dst = v
	}
	return bar, nil
}

// parseDatetime accepts the two timestamp layouts the API uses: intraday
// bars carry a time component, daily and weekly bars do not.
func parseDatetime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse datetime %q", s)
}
