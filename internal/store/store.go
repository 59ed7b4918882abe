// Package store persists runs and their per-macrostep metrics in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"mad-ising/internal/metrics"
	"mad-ising/internal/sims/ising"
)

//go:embed schema.sql
var schemaSQL string

// Run statuses.
const (
	StatusRunning     = "running"
	StatusCompleted   = "completed"
	StatusInterrupted = "interrupted"
	StatusFailed      = "failed"
)

// Store wraps a SQLite database holding run history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the database at path and applies the schema. The
// connection runs in WAL mode with foreign keys enforced.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Run is one stored run row.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Config     ising.Config
	Completed  int
	Attempted  uint64
	Accepted   uint64
	Duration   time.Duration
}

// Outcome is what a finished run reports back to its row.
type Outcome struct {
	Status    string
	Completed int
	Attempted uint64
	Accepted  uint64
	Duration  time.Duration
}

// RunWriter appends metrics for one run. It satisfies the driver's metrics
// sink.
type RunWriter struct {
	store *Store
	ctx   context.Context
	id    string
}

// BeginRun inserts a run row with a fresh UUIDv7 identifier.
func (s *Store) BeginRun(ctx context.Context, cfg ising.Config) (*RunWriter, error) {
	id := uuid.Must(uuid.NewV7()).String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, status, size, rho, steps, seed, j, b, beta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		formatTime(s.now()),
		StatusRunning,
		cfg.Size,
		cfg.Rho,
		cfg.Steps,
		cfg.Seed,
		cfg.Params.J,
		cfg.Params.B,
		cfg.Params.Beta,
	)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return &RunWriter{store: s, ctx: ctx, id: id}, nil
}

// ID returns the run identifier.
func (w *RunWriter) ID() string { return w.id }

// Append stores one macrostep record.
func (w *RunWriter) Append(rec metrics.Record) error {
	_, err := w.store.db.ExecContext(context.WithoutCancel(w.ctx), `
		INSERT INTO metrics (run_id, step, magnetisation, energy)
		VALUES (?, ?, ?, ?)
	`, w.id, rec.Step, rec.Magnetisation, rec.Energy)
	if err != nil {
		return fmt.Errorf("store metrics step %d: %w", rec.Step, err)
	}
	return nil
}

// Finish records the outcome and the finishing time.
func (w *RunWriter) Finish(out Outcome) error {
	_, err := w.store.db.ExecContext(context.WithoutCancel(w.ctx), `
		UPDATE runs
		SET finished_at = ?, status = ?, completed = ?, attempted = ?, accepted = ?, duration_ns = ?
		WHERE id = ?
	`,
		formatTime(w.store.now()),
		out.Status,
		out.Completed,
		int64(out.Attempted),
		int64(out.Accepted),
		int64(out.Duration),
		w.id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s.String)
}
