// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package roster stores roster documents and reads them from files.
package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/roster-rules/pkg/types"
)

// ErrInvalidRoster is returned for roster documents without an ID.
var ErrInvalidRoster = errors.New("invalid roster")

// Store keeps roster documents in a SQLite database, keyed by roster ID.
type Store struct {
	db *sql.DB
}

// Summary describes a stored roster without its units.
type Summary struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Open opens or creates the roster database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	cfg = cfg.Defaults()
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
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
		`CREATE TABLE IF NOT EXISTS rosters (
			id TEXT PRIMARY KEY,
			name TEXT,
			document TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rosters_name ON rosters(name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put inserts or replaces a roster.
func (s *Store) Put(ctx context.Context, r *types.Roster) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRoster)
	}
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling roster %s: %w", r.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rosters (id, name, document, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, document=excluded.document, updated_at=excluded.updated_at`,
		r.ID, r.Name, string(doc), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting roster %s: %w", r.ID, err)
	}
	return nil
}

// Get returns the roster with id. found is false when no such roster exists.
func (s *Store) Get(ctx context.Context, id string) (r *types.Roster, found bool, err error) {
	var doc string
	err = s.db.QueryRowContext(ctx, `SELECT document FROM rosters WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying roster %s: %w", id, err)
	}

	var roster types.Roster
	if err := json.Unmarshal([]byte(doc), &roster); err != nil {
		return nil, false, fmt.Errorf("decoding roster %s: %w", id, err)
	}
	return &roster, true, nil
}

// Delete removes the roster with id and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rosters WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting roster %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting roster %s: %w", id, err)
	}
	return n > 0, nil
}

// List returns a summary of every stored roster ordered by ID.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, updated_at FROM rosters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing rosters: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			name    sql.NullString
			updated string
		)
		if err := rows.Scan(&sum.ID, &name, &updated); err != nil {
			return nil, fmt.Errorf("scanning roster: %w", err)
		}
		sum.Name = name.String
		if t, parseErr := time.Parse(time.RFC3339Nano, updated); parseErr == nil {
			sum.UpdatedAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
