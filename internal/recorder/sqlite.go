package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder journals decided cycles to a SQLite database.
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

	// WAL lets dashboards read while the bot writes.
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
		`CREATE TABLE IF NOT EXISTS signal_cycles (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id    TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			price       TEXT,
			rsi         REAL,
			macd        REAL,
			macd_signal REAL,
			sma         REAL,
			ema         REAL,
			signal      TEXT NOT NULL,
			rule        TEXT,
			window_len  INTEGER,
			sent        INTEGER NOT NULL,
			send_error  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_ts ON signal_cycles(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordCycle inserts one row. The price is stored as text to keep its precision.
func (r *SQLiteRecorder) RecordCycle(rec *CycleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := rec.Decision
	var (
		price                    sql.NullString
		rsi, macd, sig, sma, ema sql.NullFloat64
	)
	if d.Latest != nil {
		s := d.Latest
		price = sql.NullString{String: s.Close.String(), Valid: true}
		rsi = sql.NullFloat64{Float64: s.RSI, Valid: true}
		macd = sql.NullFloat64{Float64: s.MACD, Valid: true}
		sig = sql.NullFloat64{Float64: s.MACDSignal, Valid: true}
		sma = sql.NullFloat64{Float64: s.SMA, Valid: true}
		ema = sql.NullFloat64{Float64: s.EMA, Valid: true}
	}

	_, err := r.db.Exec(`INSERT INTO signal_cycles
		(cycle_id, timestamp, price, rsi, macd, macd_signal, sma, ema,
		 signal, rule, window_len, sent, send_error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.CycleID, rec.At.Unix(), price, rsi, macd, sig, sma, ema,
		string(d.Signal), string(d.Rule), rec.WindowLen, rec.Sent, rec.SendError,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
