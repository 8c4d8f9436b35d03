// Package store persists launch history so status and the control API can
// report what was issued and when, across launcher invocations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"weatherstack/internal/models"
)

// Launch is one recorded issuance of a start action.
type Launch struct {
	ID        string          `json:"id"`
	ReportID  string          `json:"reportId"`
	Name      string          `json:"name"`
	Strategy  models.Strategy `json:"strategy"`
	PID       int             `json:"pid,omitempty"`
	Issued    bool            `json:"issued"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Store is a SQLite-backed launch history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS launches (
	id         TEXT PRIMARY KEY,
	report_id  TEXT NOT NULL,
	name       TEXT NOT NULL,
	strategy   TEXT NOT NULL,
	pid        INTEGER NOT NULL DEFAULT 0,
	issued     INTEGER NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS launches_name_idx ON launches (name, created_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure history schema: %w", err)
	}
	return nil
}

// RecordLaunch inserts one issuance record. An empty ID is assigned a fresh
// UUID; CreatedAt defaults to now in UTC.
func (s *Store) RecordLaunch(ctx context.Context, l Launch) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	const insert = `
INSERT INTO launches (id, report_id, name, strategy, pid, issued, error, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`
	_, err := s.db.ExecContext(ctx, insert,
		l.ID, l.ReportID, l.Name, string(l.Strategy), l.PID, l.Issued, l.Error, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record launch for %s: %w", l.Name, err)
	}
	return nil
}

// LaunchesByName returns the most recent launches for a service, newest
// first, up to limit.
func (s *Store) LaunchesByName(ctx context.Context, name string, limit int) ([]Launch, error) {
	const query = `
SELECT id, report_id, name, strategy, pid, issued, error, created_at
FROM launches WHERE name = ? ORDER BY created_at DESC, rowid DESC LIMIT ?
`
	rows, err := s.db.QueryContext(ctx, query, name, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query launches for %s: %w", name, err)
	}
	defer rows.Close()

	var launches []Launch
	for rows.Next() {
		var l Launch
		var strategy string
		if err := rows.Scan(&l.ID, &l.ReportID, &l.Name, &strategy, &l.PID, &l.Issued, &l.Error, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan launch row: %w", err)
		}
		l.Strategy = models.Strategy(strategy)
		launches = append(launches, l)
	}
	return launches, rows.Err()
}

// LastLaunch returns the most recent launch record for a service.
func (s *Store) LastLaunch(ctx context.Context, name string) (Launch, error) {
	launches, err := s.LaunchesByName(ctx, name, 1)
	if err != nil {
		return Launch{}, err
	}
	if len(launches) == 0 {
		return Launch{}, sql.ErrNoRows
	}
	return launches[0], nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
