// Package runlog records ETL run history in a local SQLite database so
// operators can see when each retailer last produced data and why a run
// failed.
package runlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Entry is one row of run history.
type Entry struct {
	ID           int64      `json:"id"`
	Retailer     string     `json:"retailer"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ProductCount int        `json:"product_count"`
	PeriodCount  int        `json:"period_count"`
	Error        string     `json:"error,omitempty"`
}

// Run statuses.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Log provides read/write access to the etl_runs table.
type Log struct {
	db *sql.DB
}

const migration = `
CREATE TABLE IF NOT EXISTS etl_runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	retailer      TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'running',
	started_at    DATETIME NOT NULL,
	completed_at  DATETIME,
	product_count INTEGER NOT NULL DEFAULT 0,
	period_count  INTEGER NOT NULL DEFAULT 0,
	error         TEXT
);

CREATE INDEX IF NOT EXISTS idx_etl_runs_retailer ON etl_runs(retailer);
CREATE INDEX IF NOT EXISTS idx_etl_runs_started_at ON etl_runs(started_at);
`

// Open opens (creating if needed) the run log database at path.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "runlog: exec %s", pragma)
		}
	}
	if _, err := db.Exec(migration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "runlog: migrate")
	}
	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Start records the beginning of a retailer run and returns its ID.
func (l *Log) Start(ctx context.Context, retailer string) (int64, error) {
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO etl_runs (retailer, status, started_at) VALUES (?, ?, ?)`,
		retailer, StatusRunning, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrapf(err, "runlog: start run for %s", retailer)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "runlog: last insert id")
	}
	return id, nil
}

// Complete marks a run as successfully completed with its output counts.
func (l *Log) Complete(ctx context.Context, runID int64, productCount, periodCount int) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE etl_runs SET status = ?, completed_at = ?, product_count = ?, period_count = ? WHERE id = ?`,
		StatusComplete, time.Now().UTC(), productCount, periodCount, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: complete run %d", runID)
	}
	return nil
}

// Fail marks a run as failed with a one-line cause.
func (l *Log) Fail(ctx context.Context, runID int64, cause string) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE etl_runs SET status = ?, completed_at = ?, error = ? WHERE id = ?`,
		StatusFailed, time.Now().UTC(), cause, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: fail run %d", runID)
	}
	return nil
}

// Recent returns the most recent run entries, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, retailer, status, started_at, completed_at, product_count, period_count, COALESCE(error, '')
		 FROM etl_runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: recent")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Retailer, &e.Status, &e.StartedAt, &e.CompletedAt, &e.ProductCount, &e.PeriodCount, &e.Error); err != nil {
			return nil, eris.Wrap(err, "runlog: scan entry")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
