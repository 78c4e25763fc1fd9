package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// PostgresRecorder persists display history to PostgreSQL.
type PostgresRecorder struct {
	db *sql.DB
}

// NewPostgresRecorder connects with the given DSN and runs migrations.
func NewPostgresRecorder(dsn string) (*PostgresRecorder, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("[INFO] postgres recorder opened")
	return r, nil
}

func (r *PostgresRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS series_events (
			id           BIGSERIAL PRIMARY KEY,
			timestamp    BIGINT NOT NULL,
			operation    TEXT,
			points       INTEGER,
			latest_price DOUBLE PRECISION,
			latest_label TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_series_ts ON series_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS failure_events (
			id        BIGSERIAL PRIMARY KEY,
			timestamp BIGINT NOT NULL,
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

func (r *PostgresRecorder) RecordSeries(evt *SeriesEvent) error {
	_, err := r.db.Exec(`INSERT INTO series_events
		(timestamp, operation, points, latest_price, latest_label)
		VALUES ($1, $2, $3, $4, $5)`,
		time.Now().Unix(), evt.Operation, evt.Points, evt.LatestPrice, evt.LatestLabel,
	)
	return err
}

func (r *PostgresRecorder) RecordFailure(evt *FailureEvent) error {
	_, err := r.db.Exec(`INSERT INTO failure_events
		(timestamp, operation, message, cause)
		VALUES ($1, $2, $3, $4)`,
		time.Now().Unix(), evt.Operation, evt.Message, evt.Cause,
	)
	return err
}

// CountSeries returns the number of series events recorded for an operation.
func (r *PostgresRecorder) CountSeries(operation string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM series_events WHERE operation = $1`, operation).Scan(&n)
	return n, err
}

// CountFailures returns the number of recorded failure events for an operation.
func (r *PostgresRecorder) CountFailures(operation string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM failure_events WHERE operation = $1`, operation).Scan(&n)
	return n, err
}

func (r *PostgresRecorder) Close() error {
	log.Println("[INFO] closing postgres recorder")
	return r.db.Close()
}
