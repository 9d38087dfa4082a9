package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quantfx/fxsignal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and manage journaled signals and backtest runs",
}

var historySignalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "List recent signals, newest first",
	RunE:  runHistorySignals,
}

var historyRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent backtest runs, newest first",
	RunE:  runHistoryRuns,
}

var historyMarkCmd = &cobra.Command{
	Use:   "mark <signal-id> <open|won|lost>",
	Short: "Record the outcome of a journaled signal",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryMark,
}

var (
	histPair  string
	histLimit int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historySignalsCmd, historyRunsCmd, historyMarkCmd)

	historySignalsCmd.Flags().StringVarP(&histPair, "pair", "p", "", "restrict to one currency pair")
	historySignalsCmd.Flags().IntVarP(&histLimit, "limit", "n", 20, "maximum entries to list")
	historyRunsCmd.Flags().IntVarP(&histLimit, "limit", "n", 20, "maximum entries to list")
}

func openJournal() (*journal.SQLiteJournal, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return journal.Open(cfg.Journal.DBPath)
}

func runHistorySignals(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListSignals(histPair, histLimit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no signals journaled")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPAIR\tTF\tSTRATEGY\tACTION\tENTRY\tSTOP\tTARGET\tLOT\tSOURCE\tSTATUS")
	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.5f\t%.5f\t%.5f\t%.2f\t%s\t%s\n",
			rec.SignalID,
			rec.Created.Format("2006-01-02 15:04"),
			rec.Pair, rec.Timeframe,
			rec.Signal.Strategy, rec.Signal.Action,
			rec.Signal.Entry, rec.Signal.StopLoss, rec.Signal.TakeProfit,
			rec.Signal.LotSize,
			rec.Source, rec.Status,
		)
	}
	return w.Flush()
}

func runHistoryRuns(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListBacktests(histLimit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no backtest runs journaled")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPAIR\tTF\tSTRATEGY\tTRADES\tWINS\tLOSSES\tWIN%\tNET")
	for _, rec := range recs {
		r := rec.Results
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%.1f\t%.2f\n",
			rec.RunID,
			rec.Created.Format("2006-01-02 15:04"),
			r.CurrencyPair, r.Timeframe, rec.Strategy,
			r.TotalTrades, r.Wins, r.Losses, r.WinRate, r.NetProfit,
		)
	}
	return w.Flush()
}

func runHistoryMark(cmd *cobra.Command, args []string) error {
	status, err := journal.ParseStatus(args[1])
	if err != nil {
		return err
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.UpdateSignalStatus(args[0], status); err != nil {
		return err
	}
	fmt.Printf("signal %s marked %s\n", args[0], status)
	return nil
}
