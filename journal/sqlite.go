package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quantfx/fxsignal/backtest"
	"github.com/quantfx/fxsignal/pkg/id"
	"github.com/quantfx/fxsignal/signal"
)

// SQLiteJournal stores signal history and backtest runs in a SQLite file.
type SQLiteJournal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database and applies the schema.
func Open(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// RecordSignal journals a freshly generated signal and returns its ID.
func (j *SQLiteJournal) RecordSignal(rec SignalRecord) (string, error) {
	if rec.SignalID == "" {
		rec.SignalID = id.New()
	}
	if rec.Created.IsZero() {
		rec.Created = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = StatusOpen
	}

	_, err := j.db.Exec(`
		INSERT INTO signals
		(signal_id, created, pair, timeframe, strategy, trend, action,
		 entry, stop_loss, take_profit, lot_size,
		 macd_confirmation, bollinger_confirmation, source, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SignalID, rec.Created, rec.Pair, rec.Timeframe,
		string(rec.Signal.Strategy), string(rec.Signal.Trend), string(rec.Signal.Action),
		rec.Signal.Entry, rec.Signal.StopLoss, rec.Signal.TakeProfit, rec.Signal.LotSize,
		rec.Signal.MACDConfirmation, rec.Signal.BollingerConfirmation,
		rec.Source, string(rec.Status),
	)
	if err != nil {
		return "", fmt.Errorf("record signal: %w", err)
	}
	return rec.SignalID, nil
}

// UpdateSignalStatus marks a journaled signal as won, lost or open again.
func (j *SQLiteJournal) UpdateSignalStatus(signalID string, status TradeStatus) error {
	res, err := j.db.Exec(`UPDATE signals SET status = ? WHERE signal_id = ?`,
		string(status), signalID)
	if err != nil {
		return fmt.Errorf("update signal status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update signal status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no signal with id %s", signalID)
	}
	return nil
}

// ListSignals returns the most recent signals, newest first, up to limit.
// A non-empty pair restricts the listing to that pair.
func (j *SQLiteJournal) ListSignals(pair string, limit int) ([]SignalRecord, error) {
	query := `
		SELECT signal_id, created, pair, timeframe, strategy, trend, action,
		       entry, stop_loss, take_profit, lot_size,
		       macd_confirmation, bollinger_confirmation, source, status
		FROM signals`
	args := []any{}
	if pair != "" {
		query += ` WHERE pair = ?`
		args = append(args, pair)
	}
	query += ` ORDER BY created DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list signals: %w", err)
	}
	defer rows.Close()

	var recs []SignalRecord
	for rows.Next() {
		var rec SignalRecord
		var strategy, trend, action, status string

		err := rows.Scan(
			&rec.SignalID, &rec.Created, &rec.Pair, &rec.Timeframe,
			&strategy, &trend, &action,
			&rec.Signal.Entry, &rec.Signal.StopLoss, &rec.Signal.TakeProfit,
			&rec.Signal.LotSize,
			&rec.Signal.MACDConfirmation, &rec.Signal.BollingerConfirmation,
			&rec.Source, &status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}

		rec.Signal.Pair = rec.Pair
		rec.Signal.Strategy = signal.Strategy(strategy)
		rec.Signal.Trend = signal.Trend(trend)
		rec.Signal.Action = signal.Action(action)
		rec.Status = TradeStatus(status)

		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// RecordBacktest journals a completed backtest run and returns its ID.
func (j *SQLiteJournal) RecordBacktest(rec BacktestRecord) (string, error) {
	if rec.RunID == "" {
		rec.RunID = id.New()
	}
	if rec.Created.IsZero() {
		rec.Created = time.Now().UTC()
	}

	r := rec.Results
	_, err := j.db.Exec(`
		INSERT INTO backtest_runs
		(run_id, created, pair, timeframe, strategy,
		 total_trades, wins, losses, win_rate,
		 net_profit, avg_win, avg_loss, bars_analyzed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Created, r.CurrencyPair, r.Timeframe, string(rec.Strategy),
		r.TotalTrades, r.Wins, r.Losses, r.WinRate,
		r.NetProfit, r.AvgWin, r.AvgLoss, r.BarsAnalyzed,
	)
	if err != nil {
		return "", fmt.Errorf("record backtest: %w", err)
	}
	return rec.RunID, nil
}

// ListBacktests returns the most recent backtest runs, newest first.
func (j *SQLiteJournal) ListBacktests(limit int) ([]BacktestRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, pair, timeframe, strategy,
		       total_trades, wins, losses, win_rate,
		       net_profit, avg_win, avg_loss, bars_analyzed
		FROM backtest_runs
		ORDER BY created DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list backtests: %w", err)
	}
	defer rows.Close()

	var recs []BacktestRecord
	for rows.Next() {
		var rec BacktestRecord
		var strategy string
		var r backtest.Results

		err := rows.Scan(
			&rec.RunID, &rec.Created, &r.CurrencyPair, &r.Timeframe, &strategy,
			&r.TotalTrades, &r.Wins, &r.Losses, &r.WinRate,
			&r.NetProfit, &r.AvgWin, &r.AvgLoss, &r.BarsAnalyzed,
		)
		if err != nil {
			return nil, fmt.Errorf("scan backtest: %w", err)
		}

		rec.Strategy = signal.Strategy(strategy)
		rec.Results = r
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
