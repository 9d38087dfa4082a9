// Package config loads and validates the assistant configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantfx/fxsignal/market"
	"github.com/quantfx/fxsignal/signal"
)

// Config is the complete assistant configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Trade    TradeConfig    `json:"trade" yaml:"trade"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Advisor  AdvisorConfig  `json:"advisor" yaml:"advisor"`
	Telegram TelegramConfig `json:"telegram" yaml:"telegram"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// AccountConfig holds the risk-sizing inputs.
type AccountConfig struct {
	Balance        float64 `json:"balance" yaml:"balance"`
	RiskPercentage float64 `json:"risk_percentage" yaml:"risk_percentage"`
}

// TradeConfig holds the default instrument and strategy selection.
type TradeConfig struct {
	Pair      string `json:"pair" yaml:"pair"`
	Timeframe string `json:"timeframe" yaml:"timeframe"`
	Strategy  string `json:"strategy" yaml:"strategy"`
}

// DataConfig holds market-data provider settings. An empty API key puts
// the provider in mock-only mode.
type DataConfig struct {
	TwelveDataAPIKey string `json:"twelve_data_api_key,omitempty" yaml:"twelve_data_api_key,omitempty"`
}

// AdvisorConfig holds the optional AI-confirmation settings.
type AdvisorConfig struct {
	GeminiAPIKey string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`
}

// TelegramConfig holds the optional notification settings.
type TelegramConfig struct {
	BotToken string `json:"bot_token,omitempty" yaml:"bot_token,omitempty"`
	ChatID   string `json:"chat_id,omitempty" yaml:"chat_id,omitempty"`
}

// JournalConfig holds signal-history persistence settings.
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// Load reads configuration from a file, trying YAML first and JSON second.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a file, as YAML for .yaml/.yml paths
// and JSON otherwise.
func (c *Config) Save(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Account.RiskPercentage <= 0 || c.Account.RiskPercentage > 100 {
		return fmt.Errorf("account.risk_percentage must be in (0, 100]")
	}
	if !market.ValidPair(c.Trade.Pair) {
		return fmt.Errorf("unknown pair: %s", c.Trade.Pair)
	}
	if !market.ValidTimeframe(c.Trade.Timeframe) {
		return fmt.Errorf("unknown timeframe: %s", c.Trade.Timeframe)
	}
	if _, err := signal.ParseStrategy(c.Trade.Strategy); err != nil {
		return err
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Default returns a configuration with sensible defaults and no API keys.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Balance:        10000,
			RiskPercentage: 1,
		},
		Trade: TradeConfig{
			Pair:      "EUR/USD",
			Timeframe: "1H",
			Strategy:  string(signal.StrategyTrend),
		},
		Journal: JournalConfig{
			DBPath: "./fxsignal.sqlite",
		},
	}
}
