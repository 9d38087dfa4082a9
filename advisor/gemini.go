// Package advisor asks a generative model for a second opinion on the
// MACD and Bollinger confirmations of a signal. It is a post-processing
// step composed after the engine by the caller: the deterministic signal
// is never altered, and any failure here leaves it untouched.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quantfx/fxsignal/market"
	"github.com/quantfx/fxsignal/signal"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
)

// Confirmation is the model's read on the two indicator conditions.
type Confirmation struct {
	MACDConfirmation      bool `json:"macdConfirmation"`
	BollingerConfirmation bool `json:"bollingerConfirmation"`
}

// GeminiAdvisor calls the Gemini generateContent API.
type GeminiAdvisor struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGemini creates an advisor with the given API key.
func NewGemini(apiKey string) *GeminiAdvisor {
	return &GeminiAdvisor{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewGeminiWithBaseURL creates an advisor against a non-default endpoint,
// used by tests.
func NewGeminiWithBaseURL(apiKey, baseURL string) *GeminiAdvisor {
	a := NewGemini(apiKey)
	a.baseURL = baseURL
	return a
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Confirm asks the model whether the MACD and Bollinger conditions support
// the signal's action and parses its JSON verdict.
func (a *GeminiAdvisor) Confirm(ctx context.Context, sig signal.TradeSignal, snap market.IndicatorSnapshot) (Confirmation, error) {
	var conf Confirmation

	prompt := buildPrompt(sig, snap)

	reqBody, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return conf, fmt.Errorf("marshal advisor request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		a.baseURL, a.model, a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return conf, fmt.Errorf("build advisor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return conf, fmt.Errorf("call advisor: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return conf, fmt.Errorf("read advisor response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return conf, fmt.Errorf("advisor status %d: %s", resp.StatusCode, string(body))
	}

	var gen generateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		return conf, fmt.Errorf("decode advisor response: %w", err)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return conf, fmt.Errorf("advisor returned no candidates")
	}

	if err := json.Unmarshal([]byte(gen.Candidates[0].Content.Parts[0].Text), &conf); err != nil {
		return conf, fmt.Errorf("parse advisor verdict: %w", err)
	}
	return conf, nil
}

func buildPrompt(sig signal.TradeSignal, snap market.IndicatorSnapshot) string {
	macdCondition := fmt.Sprintf("MACD histogram is %.5f for a %s signal",
		snap.MACDHistogram, sig.Action)
	bollingerCondition := fmt.Sprintf(
		"price %.5f sits between the Bollinger bands %.5f and %.5f, EMA20 at %.5f, for a %s signal",
		snap.CurrentPrice, snap.BollingerLower, snap.BollingerUpper, snap.EMA20, sig.Action)

	return fmt.Sprintf(`You are a financial analyst who confirms or denies trade signals based on technical indicators.

Given the following conditions for MACD and Bollinger Bands, determine whether each indicator confirms the trade signal.

Respond with JSON only, in the form {"macdConfirmation": bool, "bollingerConfirmation": bool}. For each indicator, set the field to true if the indicator confirms the signal, and false if it does not.

MACD Condition: %s
Bollinger Bands Condition: %s`, macdCondition, bollingerCondition)
}
