package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantfx/fxsignal/config"
	"github.com/quantfx/fxsignal/marketdata"
)

var rootCmd = &cobra.Command{
	Use:   "fxsignal",
	Short: "A forex signal assistant with a deterministic engine and backtester",
	Long: `Fxsignal derives buy/sell/hold recommendations from technical
indicators, sizes positions against your account risk settings, and can
backtest the built-in strategies over historical data.

It provides tools for:
  - Generating signals from live or mock market data
  - Backtesting the trend, reversion and breakout strategies
  - Keeping a SQLite history of signals and backtest runs
  - Pushing signals to a Telegram chat
  - Optionally asking a generative model for confirmation`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./fxsignal.yaml if present)")
}

// loadConfig resolves the configuration: the --config file if given, a
// ./fxsignal.yaml if present, defaults otherwise.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	if _, err := os.Stat("fxsignal.yaml"); err == nil {
		return config.Load("fxsignal.yaml")
	}
	return config.Default(), nil
}

// newLogger builds the CLI logger. Console encoding keeps interactive use
// readable; errors still carry structured fields.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// newProvider builds the market-data provider from the configuration. With
// no API key or with forceMock set, it serves seeded mock data only.
func newProvider(cfg *config.Config, forceMock bool, log *zap.Logger) *marketdata.Provider {
	if forceMock || cfg.Data.TwelveDataAPIKey == "" {
		return marketdata.NewProvider(nil, log)
	}
	return marketdata.NewProvider(marketdata.NewClient(cfg.Data.TwelveDataAPIKey), log)
}
