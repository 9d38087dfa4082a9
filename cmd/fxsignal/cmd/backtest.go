package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantfx/fxsignal/backtest"
	"github.com/quantfx/fxsignal/journal"
	"github.com/quantfx/fxsignal/marketdata"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest a strategy over historical bars",
	Long: `Backtest replays historical bars for a pair through the signal
engine, simulating one open position at a time with the stop checked before
the target on every bar.

With a Twelve Data API key configured the bars come from the live API;
otherwise a seeded mock series is used.

Example:
  fxsignal backtest -p EUR/USD -t 1H -s breakout --bars 500`,
	RunE: runBacktestCmd,
}

var (
	btBars int
	btSeed int64
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&sigPair, "pair", "p", "", "currency pair (default from config)")
	backtestCmd.Flags().StringVarP(&sigTimeframe, "timeframe", "t", "", "chart timeframe (default from config)")
	backtestCmd.Flags().StringVarP(&sigStrategy, "strategy", "s", "", "strategy: trend, reversion, breakout (default from config)")
	backtestCmd.Flags().Float64VarP(&sigBalance, "balance", "b", 0, "account balance (default from config)")
	backtestCmd.Flags().Float64VarP(&sigRiskPct, "risk", "r", 0, "risk percent per trade (default from config)")
	backtestCmd.Flags().IntVar(&btBars, "bars", 500, "number of historical bars to replay")
	backtestCmd.Flags().Int64Var(&btSeed, "seed", 0, "mock data seed (0 uses the clock)")
	backtestCmd.Flags().BoolVar(&sigMock, "mock", false, "force mock market data")
	backtestCmd.Flags().BoolVar(&sigNoJournal, "no-journal", false, "skip recording the run")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req, err := resolveRequest(cfg)
	if err != nil {
		return err
	}

	log := newLogger()
	defer log.Sync()

	provider := newProvider(cfg, sigMock, log)
	if btSeed != 0 {
		provider = marketdata.NewMockProvider(btSeed, log)
	}

	series, source, err := provider.Series(cmd.Context(), req.pair, req.timeframe, btBars)
	if err != nil {
		return fmt.Errorf("fetch series: %w", err)
	}
	log.Info("series loaded",
		zap.String("pair", req.pair),
		zap.Int("bars", len(series)),
		zap.String("source", string(source)))

	res, err := backtest.Run(series, req.pair, req.timeframe, req.strategy, req.params)
	if err != nil {
		var insufficient *backtest.InsufficientDataError
		if errors.As(err, &insufficient) {
			return fmt.Errorf("cannot backtest %s: %w", req.pair, insufficient)
		}
		return err
	}

	backtest.Print(os.Stdout, res)

	if !sigNoJournal {
		j, err := journal.Open(cfg.Journal.DBPath)
		if err != nil {
			return err
		}
		defer j.Close()

		id, err := j.RecordBacktest(journal.BacktestRecord{
			Strategy: req.strategy,
			Results:  res,
		})
		if err != nil {
			return err
		}
		log.Info("backtest journaled", zap.String("id", id))
	}
	return nil
}
