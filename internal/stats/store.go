// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats keeps a SQLite log of paragraph lookups: which identifier
// was asked for, through which transport, and whether it was found. Quote
// text is never stored.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/catechism-bot/pkg/types"
)

const defaultTopLimit = 10

// Store manages the lookup log database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and its schema. The parent
// directory is created when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating stats directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS lookups (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			paragraph_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			source TEXT,
			truncated INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_paragraph_id ON lookups(paragraph_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one lookup to the log.
func (s *Store) Record(ctx context.Context, l types.Lookup) error {
	at := l.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lookups (paragraph_id, outcome, source, truncated, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		l.ID, string(l.Outcome), l.Source, l.Truncated, at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording lookup %s: %w", l.ID, err)
	}
	return nil
}

// Top returns the most requested paragraphs, most requested first. Ties
// are broken by identifier. A limit of zero or less uses 10.
func (s *Store) Top(ctx context.Context, limit int) ([]types.LookupCount, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT paragraph_id,
			COUNT(*) AS n,
			SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
			MAX(created_at)
		FROM lookups
		GROUP BY paragraph_id
		ORDER BY n DESC, paragraph_id ASC
		LIMIT ?`,
		string(types.OutcomeFound), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying top lookups: %w", err)
	}
	defer rows.Close()

	var counts []types.LookupCount
	for rows.Next() {
		var (
			c    types.LookupCount
			last string
		)
		if err := rows.Scan(&c.ID, &c.Count, &c.Found, &last); err != nil {
			return nil, fmt.Errorf("scanning lookup row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, last); err == nil {
			c.LastSeen = t
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Total returns the number of recorded lookups.
func (s *Store) Total(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lookups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting lookups: %w", err)
	}
	return n, nil
}
