// Package driver runs a Metropolis chain for a fixed number of macrosteps and
// fans the lattice state out to snapshot, metrics and finalizing sinks.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"mad-ising/internal/core"
	"mad-ising/internal/metrics"
	"mad-ising/internal/sims/ising"
)

// Timing names recorded by the driver.
const (
	PhaseSweep    = "sweep"
	PhaseSnapshot = "snapshot"
	PhaseMetrics  = "metrics"
	PhaseFinalize = "finalize"
)

// MetricsSink receives one record per macrostep in step order.
type MetricsSink interface {
	Append(rec metrics.Record) error
}

// SnapshotSink receives the lattice after every macrostep.
type SnapshotSink interface {
	Snapshot(step int, g *core.SpinGrid) error
}

// Finalizer runs once after the last macrostep.
type Finalizer interface {
	Finalize() error
}

// Progress is notified after every macrostep.
type Progress interface {
	Update(done, total int)
	Done()
}

// Options wires the optional collaborators of a run. Nil fields are skipped.
type Options struct {
	Logger     *slog.Logger
	Timings    *metrics.Timings
	Progress   Progress
	Snapshots  SnapshotSink
	Metrics    []MetricsSink
	Finalizers []Finalizer
}

// FinalizeError wraps a finalizer failure. It is fatal even when the run was
// interrupted.
type FinalizeError struct {
	Err error
}

func (e *FinalizeError) Error() string { return "finalize: " + e.Err.Error() }

func (e *FinalizeError) Unwrap() error { return e.Err }

// Result summarises a finished or interrupted run.
type Result struct {
	Steps       int
	Completed   int
	Duration    time.Duration
	Attempted   uint64
	Accepted    uint64
	Interrupted bool
}

// AcceptanceRatio returns accepted/attempted, or 0 when nothing was attempted.
func (r Result) AcceptanceRatio() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(r.Attempted)
}

// Driver owns a model for the duration of a run.
type Driver struct {
	model *ising.Model
	opts  Options
	log   *slog.Logger
}

// New binds a model to its sinks.
func New(model *ising.Model, opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Driver{model: model, opts: opts, log: logger}
}

// Run performs the configured number of macrosteps. Every sink error aborts
// the run immediately. Cancelling ctx stops the run after the macrostep in
// flight; finalizers still run over what was produced and the context error
// is returned alongside the partial result.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	cfg := d.model.Config()
	res := Result{Steps: cfg.Steps}
	start := time.Now()
	tm := d.opts.Timings

	d.log.Info("run starting",
		"size", cfg.Size, "rho", cfg.Rho, "steps", cfg.Steps, "seed", d.model.Seed(),
		"J", cfg.Params.J, "B", cfg.Params.B, "beta", cfg.Params.Beta)

	var runErr error
	for step := 0; step < cfg.Steps; step++ {
		if err := ctx.Err(); err != nil {
			res.Interrupted = true
			runErr = err
			d.log.Warn("run interrupted", "completed", res.Completed, "steps", cfg.Steps)
			break
		}
		if err := d.macrostep(step, tm); err != nil {
			res.Duration = time.Since(start)
			res.Attempted, res.Accepted = d.model.Acceptance()
			return res, err
		}
		res.Completed++
		if d.opts.Progress != nil {
			d.opts.Progress.Update(res.Completed, cfg.Steps)
		}
	}
	if d.opts.Progress != nil {
		d.opts.Progress.Done()
	}
	res.Attempted, res.Accepted = d.model.Acceptance()

	if res.Completed > 0 {
		for _, f := range d.opts.Finalizers {
			if err := tm.Time(PhaseFinalize, f.Finalize); err != nil {
				res.Duration = time.Since(start)
				return res, errors.Join(runErr, &FinalizeError{Err: err})
			}
		}
	}

	res.Duration = time.Since(start)
	d.log.Info("run finished",
		"completed", res.Completed, "duration", res.Duration.Round(time.Millisecond),
		"acceptance", res.AcceptanceRatio())
	return res, runErr
}

func (d *Driver) macrostep(step int, tm *metrics.Timings) error {
	began := time.Now()
	d.model.Step()
	tm.Observe(PhaseSweep, time.Since(began))

	if d.opts.Snapshots != nil {
		err := tm.Time(PhaseSnapshot, func() error {
			return d.opts.Snapshots.Snapshot(step, d.model.Grid())
		})
		if err != nil {
			return fmt.Errorf("snapshot step %d: %w", step, err)
		}
	}

	if len(d.opts.Metrics) == 0 {
		return nil
	}
	rec := metrics.Record{
		Step:          step,
		Magnetisation: d.model.Magnetisation(),
		Energy:        d.model.Energy(),
	}
	d.log.Debug("macrostep", "step", step, "magnetisation", rec.Magnetisation, "energy", rec.Energy)
	return tm.Time(PhaseMetrics, func() error {
		for _, sink := range d.opts.Metrics {
			if err := sink.Append(rec); err != nil {
				return fmt.Errorf("metrics step %d: %w", step, err)
			}
		}
		return nil
	})
}
