/*
Package sqlite provides a SQLite-backed run store.

PURPOSE:
  Persists pipeline runs (configuration, report and listing metadata) so
  results can be browsed and exported after the upload that produced them.
  The pipeline itself stays stateless; this is history only.

KEY TABLES:
  runs: one row per run, report and config stored as JSON

INDEXES:
  - idx_runs_created_at: newest-first listing

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite allows a single writer.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not block
  while a run is being saved.

USAGE:
  store, err := sqlite.New("./data/manning.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - manning/store.go: RunStore interface
  - store/postgres: PostgreSQL implementation
  - store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

// Store implements manning.RunStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ manning.RunStore = (*Store)(nil)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL,
		groups_count INTEGER NOT NULL DEFAULT 0,
		months_count INTEGER NOT NULL DEFAULT 0,
		warnings_count INTEGER NOT NULL DEFAULT 0,
		config_json TEXT NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUN STORE
// =============================================================================

// SaveRun inserts or replaces a run.
func (s *Store) SaveRun(ctx context.Context, run manning.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	report, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	sum := run.Summary()

	query := `
		INSERT INTO runs (id, source, created_at, groups_count, months_count, warnings_count, config_json, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			groups_count = excluded.groups_count,
			months_count = excluded.months_count,
			warnings_count = excluded.warnings_count,
			config_json = excluded.config_json,
			report_json = excluded.report_json
	`
	_, err = s.db.ExecContext(ctx, query,
		run.ID, run.Source, run.CreatedAt.UTC().Format(timeLayout),
		sum.Groups, sum.Months, sum.Warnings, string(cfg), string(report),
	)
	return err
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*manning.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var run manning.Run
	var createdAt, cfg, report string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, source, created_at, config_json, report_json FROM runs WHERE id = ?",
		id,
	).Scan(&run.ID, &run.Source, &createdAt, &cfg, &report)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", generic.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	run.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if err := json.Unmarshal([]byte(cfg), &run.Config); err != nil {
		return nil, fmt.Errorf("decode config of run %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(report), &run.Report); err != nil {
		return nil, fmt.Errorf("decode report of run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]manning.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, source, created_at, groups_count, months_count, warnings_count FROM runs ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []manning.RunSummary
	for rows.Next() {
		var r manning.RunSummary
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Source, &createdAt, &r.Groups, &r.Months, &r.Warnings); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRun removes a run.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", generic.ErrRunNotFound, id)
	}
	return nil
}

// Reset clears all runs (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM runs")
	return err
}
