package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantfx/fxsignal/config"
	"github.com/quantfx/fxsignal/market"
	"github.com/quantfx/fxsignal/marketdata"
	fxsignal "github.com/quantfx/fxsignal/signal"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Generate and push signals on a schedule",
	Long: `Watch runs the signal pipeline on a cron schedule, journaling every
result and pushing actionable signals to Telegram when configured. Ticks
that fall outside forex market hours are skipped.

The default schedule fires at the top of every hour, matching the 1H
timeframe. Stop with Ctrl-C.

Example:
  fxsignal watch --schedule "0 * * * *" --notify`,
	RunE: runWatch,
}

var watchSchedule string

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "0 * * * *", "cron schedule for signal generation")
	watchCmd.Flags().StringVarP(&sigPair, "pair", "p", "", "currency pair (default from config)")
	watchCmd.Flags().StringVarP(&sigTimeframe, "timeframe", "t", "", "chart timeframe (default from config)")
	watchCmd.Flags().StringVarP(&sigStrategy, "strategy", "s", "", "strategy (default from config)")
	watchCmd.Flags().BoolVar(&sigMock, "mock", false, "force mock market data")
	watchCmd.Flags().BoolVar(&sigNotify, "notify", false, "push actionable signals to Telegram")
	watchCmd.Flags().BoolVar(&sigConfirm, "confirm", false, "ask the AI advisor to confirm signals")
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	c := cron.New()
	if _, err := c.AddFunc(watchSchedule, func() {
		tick(ctx, cfg, provider, req, log)
	}); err != nil {
		return err
	}

	log.Info("watch started",
		zap.String("schedule", watchSchedule),
		zap.String("pair", req.pair),
		zap.String("timeframe", req.timeframe),
		zap.String("strategy", string(req.strategy)))
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("watch stopping")
	<-c.Stop().Done()
	return nil
}

// tick runs one scheduled signal pass.
func tick(ctx context.Context, cfg *config.Config, provider *marketdata.Provider, req signalRequest, log *zap.Logger) {
	if !market.IsOpen(time.Now()) {
		log.Info("market closed, skipping tick")
		return
	}

	sig, source, err := generateAndDispatch(ctx, cfg, provider, req, log)
	if err != nil {
		log.Error("signal pass failed", zap.Error(err))
		return
	}

	log.Info("signal generated",
		zap.String("pair", sig.Pair),
		zap.String("action", string(sig.Action)),
		zap.String("trend", string(sig.Trend)),
		zap.Float64("entry", sig.Entry),
		zap.Float64("lot", sig.LotSize),
		zap.String("source", string(source)))

	if sig.Action == fxsignal.ActionHold {
		log.Info("holding, nothing to push")
	}
}
