package driver

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mad-ising/internal/core"
	"mad-ising/internal/metrics"
	"mad-ising/internal/sims/ising"
)

type recordingSnapshots struct {
	steps []int
	ups   []int
}

func (r *recordingSnapshots) Snapshot(step int, g *core.SpinGrid) error {
	r.steps = append(r.steps, step)
	r.ups = append(r.ups, g.CountUp())
	return nil
}

type countingFinalizer struct{ calls int }

func (c *countingFinalizer) Finalize() error {
	c.calls++
	return nil
}

type failingSink struct {
	failAt int
	seen   int
}

func (f *failingSink) Append(rec metrics.Record) error {
	if rec.Step == f.failAt {
		return errors.New("disk full")
	}
	f.seen++
	return nil
}

type cancelSink struct {
	at     int
	cancel context.CancelFunc
}

func (c *cancelSink) Append(rec metrics.Record) error {
	if rec.Step == c.at {
		c.cancel()
	}
	return nil
}

func newModel(t *testing.T, n, steps int) *ising.Model {
	t.Helper()
	cfg := ising.DefaultConfig()
	cfg.Size = n
	cfg.Steps = steps
	cfg.Seed = 42
	m, err := ising.NewWithConfig(cfg)
	require.NoError(t, err)
	return m
}

func TestRunEmitsEveryMacrostep(t *testing.T) {
	m := newModel(t, 6, 5)
	var series metrics.Series
	snaps := &recordingSnapshots{}
	fin := &countingFinalizer{}
	tm := metrics.NewTimings()

	res, err := New(m, Options{
		Timings:    tm,
		Snapshots:  snaps,
		Metrics:    []MetricsSink{&series},
		Finalizers: []Finalizer{fin},
	}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Steps)
	assert.Equal(t, 5, res.Completed)
	assert.False(t, res.Interrupted)
	assert.Equal(t, uint64(5*36), res.Attempted)
	assert.InDelta(t, m.AcceptanceRatio(), res.AcceptanceRatio(), 1e-12)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, snaps.steps)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, metrics.Steps(series.Records()))
	last := series.Records()[4]
	assert.Equal(t, m.Magnetisation(), last.Magnetisation)
	assert.Equal(t, m.Energy(), last.Energy)
	assert.Equal(t, 1, fin.calls)

	assert.Equal(t, 5, tm.Stats(PhaseSweep).Count)
	assert.Equal(t, 5, tm.Stats(PhaseSnapshot).Count)
	assert.Equal(t, 1, tm.Stats(PhaseFinalize).Count)
}

func TestRunIsReproducibleForSeed(t *testing.T) {
	trace := func() []metrics.Record {
		var s metrics.Series
		_, err := New(newModel(t, 8, 4), Options{Metrics: []MetricsSink{&s}}).Run(context.Background())
		require.NoError(t, err)
		return s.Records()
	}
	assert.Equal(t, trace(), trace())
}

func TestSinkErrorAbortsRun(t *testing.T) {
	m := newModel(t, 4, 10)
	sink := &failingSink{failAt: 2}
	fin := &countingFinalizer{}

	res, err := New(m, Options{
		Metrics:    []MetricsSink{sink},
		Finalizers: []Finalizer{fin},
	}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics step 2")
	assert.Equal(t, 2, res.Completed)
	assert.Equal(t, 2, sink.seen)
	assert.Zero(t, fin.calls)
}

func TestCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fin := &countingFinalizer{}

	res, err := New(newModel(t, 4, 3), Options{Finalizers: []Finalizer{fin}}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Interrupted)
	assert.Zero(t, res.Completed)
	assert.Zero(t, fin.calls)
}

func TestCancelStopsAfterCurrentMacrostep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var series metrics.Series
	fin := &countingFinalizer{}

	res, err := New(newModel(t, 4, 10), Options{
		Metrics:    []MetricsSink{&cancelSink{at: 1, cancel: cancel}, &series},
		Finalizers: []Finalizer{fin},
	}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Interrupted)
	assert.Equal(t, 2, res.Completed)
	assert.Equal(t, 2, series.Len())
	assert.Equal(t, 1, fin.calls)
}

type errFinalizer struct{ err error }

func (f errFinalizer) Finalize() error { return f.err }

func TestFinalizeFailureSurvivesInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	diskFull := errors.New("disk full")

	res, err := New(newModel(t, 4, 10), Options{
		Metrics:    []MetricsSink{&cancelSink{at: 0, cancel: cancel}},
		Finalizers: []Finalizer{errFinalizer{err: diskFull}},
	}).Run(ctx)
	assert.True(t, res.Interrupted)
	assert.Equal(t, 1, res.Completed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, diskFull)

	var fe *FinalizeError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, diskFull, fe.Err)
}

func TestRunLogsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	_, err := New(newModel(t, 3, 2), Options{Logger: logger}).Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "run starting")
	assert.Contains(t, buf.String(), "run finished")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "x [#####.....]  50% 5/10", Bar("x", 5, 10, 10))
	assert.Equal(t, "x [##########] 100% 3/3", Bar("x", 3, 3, 10))
	assert.Equal(t, "x [#] 100% 0/0", Bar("x", 0, 0, 0))
}

func TestReporterLogsWhenNotATerminal(t *testing.T) {
	var out, logs bytes.Buffer
	r := NewReporter(&out, slog.New(slog.NewTextHandler(&logs, nil)))
	for i := 1; i <= 3; i++ {
		r.Update(i, 3)
	}
	r.Done()

	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "step=1")
	assert.Contains(t, logs.String(), "step=3")
	assert.NotContains(t, logs.String(), "step=2")
}
