package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantfx/fxsignal/advisor"
	"github.com/quantfx/fxsignal/config"
	"github.com/quantfx/fxsignal/journal"
	"github.com/quantfx/fxsignal/market"
	"github.com/quantfx/fxsignal/marketdata"
	"github.com/quantfx/fxsignal/notify"
	"github.com/quantfx/fxsignal/risk"
	"github.com/quantfx/fxsignal/signal"
)

var signalCmd = &cobra.Command{
	Use:   "signal",
	Short: "Generate a trade signal from the latest indicators",
	Long: `Signal fetches the current indicator snapshot for a pair (live from
Twelve Data when an API key is configured, mock data otherwise), runs the
deterministic signal engine, records the result in the journal and prints it.

Example:
  fxsignal signal -p EUR/USD -t 1H -s trend --notify`,
	RunE: runSignal,
}

var (
	sigPair      string
	sigTimeframe string
	sigStrategy  string
	sigBalance   float64
	sigRiskPct   float64
	sigMock      bool
	sigNotify    bool
	sigConfirm   bool
	sigNoJournal bool
)

func init() {
	rootCmd.AddCommand(signalCmd)

	signalCmd.Flags().StringVarP(&sigPair, "pair", "p", "", "currency pair (default from config)")
	signalCmd.Flags().StringVarP(&sigTimeframe, "timeframe", "t", "", "chart timeframe (default from config)")
	signalCmd.Flags().StringVarP(&sigStrategy, "strategy", "s", "", "strategy: trend, reversion, breakout (default from config)")
	signalCmd.Flags().Float64VarP(&sigBalance, "balance", "b", 0, "account balance (default from config)")
	signalCmd.Flags().Float64VarP(&sigRiskPct, "risk", "r", 0, "risk percent per trade (default from config)")
	signalCmd.Flags().BoolVar(&sigMock, "mock", false, "force mock market data")
	signalCmd.Flags().BoolVar(&sigNotify, "notify", false, "push the signal to Telegram")
	signalCmd.Flags().BoolVar(&sigConfirm, "confirm", false, "ask the AI advisor to confirm the signal")
	signalCmd.Flags().BoolVar(&sigNoJournal, "no-journal", false, "skip recording the signal")
}

// signalRequest is one resolved signal-generation request.
type signalRequest struct {
	pair      string
	timeframe string
	strategy  signal.Strategy
	params    risk.Parameters
}

func resolveRequest(cfg *config.Config) (signalRequest, error) {
	req := signalRequest{
		pair:      cfg.Trade.Pair,
		timeframe: cfg.Trade.Timeframe,
		params: risk.Parameters{
			AccountBalance: cfg.Account.Balance,
			RiskPercentage: cfg.Account.RiskPercentage,
		},
	}

	if sigPair != "" {
		req.pair = sigPair
	}
	if sigTimeframe != "" {
		req.timeframe = sigTimeframe
	}
	if sigBalance > 0 {
		req.params.AccountBalance = sigBalance
	}
	if sigRiskPct > 0 {
		req.params.RiskPercentage = sigRiskPct
	}

	if !market.ValidPair(req.pair) {
		return req, fmt.Errorf("unknown pair %q", req.pair)
	}
	if !market.ValidTimeframe(req.timeframe) {
		return req, fmt.Errorf("unknown timeframe %q", req.timeframe)
	}

	name := cfg.Trade.Strategy
	if sigStrategy != "" {
		name = sigStrategy
	}
	strategy, err := signal.ParseStrategy(name)
	if err != nil {
		return req, err
	}
	req.strategy = strategy

	return req, nil
}

func runSignal(cmd *cobra.Command, args []string) error {
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

	ctx := cmd.Context()
	provider := newProvider(cfg, sigMock, log)

	sig, source, err := generateAndDispatch(ctx, cfg, provider, req, log)
	if err != nil {
		return err
	}

	printSignal(os.Stdout, sig, req.timeframe, source)
	return nil
}

// generateAndDispatch runs one full signal pass: fetch, generate, confirm,
// journal, notify. Enrichment failures are logged and swallowed; only data
// fetch and journaling problems surface.
func generateAndDispatch(ctx context.Context, cfg *config.Config, provider *marketdata.Provider, req signalRequest, log *zap.Logger) (signal.TradeSignal, marketdata.Source, error) {
	snap, source, err := provider.Latest(ctx, req.pair, req.timeframe)
	if err != nil {
		return signal.TradeSignal{}, source, fmt.Errorf("fetch indicators: %w", err)
	}

	sig := signal.Generate(req.pair, snap, req.strategy, req.params)

	if sigConfirm && cfg.Advisor.GeminiAPIKey != "" && sig.Action != signal.ActionHold {
		adv := advisor.NewGemini(cfg.Advisor.GeminiAPIKey)
		if verdict, err := adv.Confirm(ctx, sig, snap); err != nil {
			log.Warn("advisor confirmation failed", zap.Error(err))
		} else {
			log.Info("advisor verdict",
				zap.Bool("macd", verdict.MACDConfirmation),
				zap.Bool("bollinger", verdict.BollingerConfirmation))
		}
	}

	if !sigNoJournal {
		j, err := journal.Open(cfg.Journal.DBPath)
		if err != nil {
			return sig, source, err
		}
		defer j.Close()

		id, err := j.RecordSignal(journal.SignalRecord{
			Pair:      req.pair,
			Timeframe: req.timeframe,
			Source:    string(source),
			Signal:    sig,
		})
		if err != nil {
			return sig, source, err
		}
		log.Info("signal journaled", zap.String("id", id))
	}

	if sigNotify && cfg.Telegram.BotToken != "" && sig.Action != signal.ActionHold {
		tn := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		msg := notify.FormatSignal(sig, req.timeframe, source, time.Now())
		if err := tn.Send(ctx, msg); err != nil {
			log.Warn("telegram push failed", zap.Error(err))
		}
	}

	return sig, source, nil
}

func printSignal(w io.Writer, sig signal.TradeSignal, timeframe string, source marketdata.Source) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s %s (%s)\n", sig.Action, sig.Pair, timeframe)
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Strategy:      %s\n", sig.Strategy.Name())
	fmt.Fprintf(w, "Trend:         %s\n", sig.Trend)
	fmt.Fprintf(w, "Data Source:   %s\n", source)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Entry:         %.5f\n", sig.Entry)
	fmt.Fprintf(w, "Stop Loss:     %.5f\n", sig.StopLoss)
	fmt.Fprintf(w, "Take Profit:   %.5f\n", sig.TakeProfit)
	fmt.Fprintf(w, "Lot Size:      %.2f\n", sig.LotSize)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "MACD:          %s\n", confirmText(sig.MACDConfirmation))
	fmt.Fprintf(w, "Bollinger:     %s\n", confirmText(sig.BollingerConfirmation))
}

func confirmText(confirmed bool) string {
	if confirmed {
		return "confirmed"
	}
	return "divergent"
}
