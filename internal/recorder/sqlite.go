package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists signal history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	log *logrus.Logger
	mu  sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string, log *logrus.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode: readers (ad hoc history queries) don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at      INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			interval        TEXT,
			family          TEXT NOT NULL,
			direction       TEXT NOT NULL,
			reference_price REAL,
			signal_time     INTEGER,
			stop_loss       REAL,
			take_profit     REAL,
			ai_confirmed    INTEGER,
			ai_confidence   INTEGER,
			ai_comment      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol_ts ON signals(symbol, created_at)`,

		`CREATE TABLE IF NOT EXISTS subscribers (
			chat_id    INTEGER PRIMARY KEY,
			created_at INTEGER NOT NULL
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(rec *SignalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sig := rec.Signal
	confirmed := 0
	if rec.AIConfirmed {
		confirmed = 1
	}
	_, err := r.db.Exec(`INSERT INTO signals
		(created_at, symbol, interval, family, direction,
		 reference_price, signal_time, stop_loss, take_profit,
		 ai_confirmed, ai_confidence, ai_comment)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Symbol, rec.Interval,
		string(sig.Family), string(sig.Direction),
		sig.ReferencePrice, sig.SignalTime.Unix(), sig.StopLoss, sig.TakeProfit,
		confirmed, rec.AIConfidence, rec.AIComment,
	)
	return err
}

func (r *SQLiteRecorder) AddSubscriber(chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT OR IGNORE INTO subscribers (chat_id, created_at) VALUES (?,?)`,
		chatID, time.Now().Unix())
	return err
}

func (r *SQLiteRecorder) RemoveSubscriber(chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`DELETE FROM subscribers WHERE chat_id = ?`, chatID)
	return err
}

func (r *SQLiteRecorder) Subscribers() ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT chat_id FROM subscribers ORDER BY chat_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
