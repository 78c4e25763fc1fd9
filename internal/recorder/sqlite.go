package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists display history to a SQLite database.
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
		`CREATE TABLE IF NOT EXISTS series_events (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			operation    TEXT,
			points       INTEGER,
			latest_price REAL,
			latest_label TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_series_ts ON series_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS failure_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			operation TEXT,
			message   TEXT,
			cause     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failure_ts ON failure_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSeries(evt *SeriesEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO series_events
		(timestamp, operation, points, latest_price, latest_label)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Operation, evt.Points, evt.LatestPrice, evt.LatestLabel,
	)
	return err
}

func (r *SQLiteRecorder) RecordFailure(evt *FailureEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO failure_events
		(timestamp, operation, message, cause)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), evt.Operation, evt.Message, evt.Cause,
	)
	return err
}

// CountSeries returns the number of recorded series events.
func (r *SQLiteRecorder) CountSeries() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM series_events`).Scan(&n)
	return n, err
}

// CountFailures returns the number of recorded failure events for an operation.
func (r *SQLiteRecorder) CountFailures(operation string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM failure_events WHERE operation = ?`, operation).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
