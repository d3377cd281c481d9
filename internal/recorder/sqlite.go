package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS run_history (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp            INTEGER NOT NULL,
			status_ok            INTEGER NOT NULL,
			resin_recovery       INTEGER,
			home_coin_recovery   INTEGER,
			transformer_ready    INTEGER,
			finished_expeditions INTEGER,
			total_expeditions    INTEGER,
			daily_claimed        INTEGER,
			flag_resin           INTEGER,
			flag_home_coin       INTEGER,
			flag_transformer     INTEGER,
			flag_expeditions     INTEGER,
			flag_daily_task      INTEGER,
			outcome              TEXT,
			error                TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_ts ON run_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	f := rec.Flags
	_, err := r.db.Exec(`INSERT INTO run_history
		(timestamp, status_ok, resin_recovery, home_coin_recovery, transformer_ready,
		 finished_expeditions, total_expeditions, daily_claimed,
		 flag_resin, flag_home_coin, flag_transformer, flag_expeditions, flag_daily_task,
		 outcome, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.Unix(), rec.StatusOK, rec.ResinRecoverySeconds, rec.HomeCoinRecoverySeconds, rec.TransformerReady,
		rec.FinishedExpeditions, rec.TotalExpeditions, rec.DailyRewardClaimed,
		f.ResinNearCap, f.HomeCoinNearCap, f.TransformerUsable, f.ExpeditionsFinished, f.DailyTaskPending,
		rec.Outcome, rec.Error,
	)
	return err
}

// Recent returns up to limit runs, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT
		timestamp, status_ok, resin_recovery, home_coin_recovery, transformer_ready,
		finished_expeditions, total_expeditions, daily_claimed,
		flag_resin, flag_home_coin, flag_transformer, flag_expeditions, flag_daily_task,
		outcome, error
		FROM run_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var ts int64
		f := &rec.Flags
		if err := rows.Scan(&ts, &rec.StatusOK, &rec.ResinRecoverySeconds, &rec.HomeCoinRecoverySeconds,
			&rec.TransformerReady, &rec.FinishedExpeditions, &rec.TotalExpeditions, &rec.DailyRewardClaimed,
			&f.ResinNearCap, &f.HomeCoinNearCap, &f.TransformerUsable, &f.ExpeditionsFinished, &f.DailyTaskPending,
			&rec.Outcome, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan run history: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
