// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library caches extracted paper text in SQLite so a PDF that has
// already been downloaded and parsed is not fetched again.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultDSN keeps the cache in a shared in-memory database for the life of the process.
const DefaultDSN = "file:curioquest?mode=memory&cache=shared"

// Store is a SQLite-backed extracted-text cache keyed by PDF URL.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Entry is one cached document.
type Entry struct {
	URL         string
	Text        string
	Pages       int
	ExtractedAt time.Time
}

// NewStore opens or creates the cache database at dsn and creates the schema.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps shared in-memory databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
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
		`CREATE TABLE IF NOT EXISTS documents (
			url TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			pages INTEGER NOT NULL,
			extracted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_extracted_at ON documents(extracted_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Lookup returns the cached text for pdfURL and whether it was present.
func (s *Store) Lookup(ctx context.Context, pdfURL string) (string, bool, error) {
	e, ok, err := s.Get(ctx, pdfURL)
	return e.Text, ok, err
}

// Store inserts or replaces the text extracted from pdfURL.
func (s *Store) Store(ctx context.Context, pdfURL, text string, pages int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (url, text, pages, extracted_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET text = excluded.text, pages = excluded.pages, extracted_at = excluded.extracted_at`,
		pdfURL, text, pages, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("storing %s: %w", pdfURL, err)
	}
	return nil
}

// Get returns the full cache entry for pdfURL.
func (s *Store) Get(ctx context.Context, pdfURL string) (Entry, bool, error) {
	var e Entry
	var at string
	err := s.db.QueryRowContext(ctx,
		`SELECT url, text, pages, extracted_at FROM documents WHERE url = ?`, pdfURL,
	).Scan(&e.URL, &e.Text, &e.Pages, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("querying %s: %w", pdfURL, err)
	}
	e.ExtractedAt, _ = time.Parse(time.RFC3339Nano, at)
	return e, true, nil
}

// Prune deletes entries extracted before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE extracted_at < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of cached documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}
