package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mad-ising/internal/metrics"
)

// Runs returns every stored run, oldest first. UUIDv7 identifiers sort by
// creation time.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, status, size, rho, steps, seed, j, b, beta,
		       completed, attempted, accepted, duration_ns
		FROM runs
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Run looks up a single run by id.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, status, size, rho, steps, seed, j, b, beta,
		       completed, attempted, accepted, duration_ns
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// Records returns the metrics of a run in step order.
func (s *Store) Records(ctx context.Context, runID string) ([]metrics.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step, magnetisation, energy
		FROM metrics
		WHERE run_id = ?
		ORDER BY step ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	records := []metrics.Record{}
	for rows.Next() {
		var rec metrics.Record
		if err := rows.Scan(&rec.Step, &rec.Magnetisation, &rec.Energy); err != nil {
			return nil, fmt.Errorf("scan metrics: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run                 Run
		started             string
		finished            sql.NullString
		attempted, accepted int64
		duration            int64
	)
	err := sc.Scan(
		&run.ID, &started, &finished, &run.Status,
		&run.Config.Size, &run.Config.Rho, &run.Config.Steps, &run.Config.Seed,
		&run.Config.Params.J, &run.Config.Params.B, &run.Config.Params.Beta,
		&run.Completed, &attempted, &accepted, &duration,
	)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = parseTime(finished); err != nil {
		return Run{}, fmt.Errorf("parse finished_at: %w", err)
	}
	run.Attempted = uint64(attempted)
	run.Accepted = uint64(accepted)
	run.Duration = time.Duration(duration)
	return run, nil
}
