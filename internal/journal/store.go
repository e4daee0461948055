// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps an append-only record of pipeline runs in SQLite.
// Records are write-only from the pipelines' point of view: nothing in a
// run is looked up from the journal.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdfbinder/pkg/types"
)

const defaultLimit = 20

// Run is one journal entry.
type Run struct {
	ID         string           `json:"id" yaml:"id"`
	Kind       types.RunKind    `json:"kind" yaml:"kind"`
	Inputs     []string         `json:"inputs" yaml:"inputs"`
	Pages      int              `json:"pages" yaml:"pages"`
	Skipped    []string         `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Method     types.SinkMethod `json:"method" yaml:"method"`
	Path       string           `json:"path,omitempty" yaml:"path,omitempty"`
	Bytes      int              `json:"bytes" yaml:"bytes"`
	Status     types.RunStatus  `json:"status" yaml:"status"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time        `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time        `json:"finished_at" yaml:"finished_at"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Store manages the journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			inputs TEXT NOT NULL,
			pages INTEGER NOT NULL,
			skipped TEXT,
			method TEXT NOT NULL,
			path TEXT,
			bytes INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends run. A missing ID is filled in.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	inputsJSON, _ := json.Marshal(run.Inputs)
	skippedJSON, _ := json.Marshal(run.Skipped)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, inputs, pages, skipped, method, path, bytes, status, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Kind), string(inputsJSON), run.Pages, string(skippedJSON),
		string(run.Method), run.Path, run.Bytes, string(run.Status), run.Error,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.ID, err)
	}
	return nil
}

// QueryOptions filters Recent.
type QueryOptions struct {
	// Kind restricts results to one pipeline; empty means both.
	Kind types.RunKind

	// Limit caps the number of runs (default 20).
	Limit int
}

// Recent returns runs newest first.
func (s *Store) Recent(ctx context.Context, opts QueryOptions) ([]Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT id, kind, inputs, pages, skipped, method, path, bytes, status, error, started_at, finished_at
		FROM runs`
	var args []any
	if opts.Kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(opts.Kind))
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                     Run
			kind, method, status  string
			inputsJSON            string
			skippedJSON, path     sql.NullString
			errText               sql.NullString
			startedAt, finishedAt string
		)
		if err := rows.Scan(&r.ID, &kind, &inputsJSON, &r.Pages, &skippedJSON, &method, &path,
			&r.Bytes, &status, &errText, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Kind = types.RunKind(kind)
		r.Method = types.SinkMethod(method)
		r.Status = types.RunStatus(status)
		r.Path = path.String
		r.Error = errText.String
		json.Unmarshal([]byte(inputsJSON), &r.Inputs)
		if skippedJSON.Valid {
			json.Unmarshal([]byte(skippedJSON.String), &r.Skipped)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
