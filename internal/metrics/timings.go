package metrics

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Timings collects wall-clock durations per named phase. It is passed into the
// driver explicitly and read back after the run.
type Timings struct {
	samples map[string][]float64
}

// TimingStats summarizes one phase. Mean and StdDev are in seconds.
type TimingStats struct {
	Name   string
	Count  int
	Total  time.Duration
	Mean   float64
	StdDev float64
}

// NewTimings returns an empty collector.
func NewTimings() *Timings {
	return &Timings{samples: map[string][]float64{}}
}

// Observe records one duration for phase name.
func (t *Timings) Observe(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.samples[name] = append(t.samples[name], d.Seconds())
}

// Time runs fn and records its duration under name, returning fn's error.
func (t *Timings) Time(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	t.Observe(name, time.Since(start))
	return err
}

// Stats returns the summary for one phase.
func (t *Timings) Stats(name string) TimingStats {
	if t == nil {
		return TimingStats{Name: name}
	}
	xs := t.samples[name]
	s := TimingStats{Name: name, Count: len(xs)}
	if len(xs) == 0 {
		return s
	}
	var total float64
	for _, x := range xs {
		total += x
	}
	s.Total = time.Duration(total * float64(time.Second))
	s.Mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s
}

// All returns stats for every observed phase, sorted by name.
func (t *Timings) All() []TimingStats {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.samples))
	for name := range t.samples {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]TimingStats, 0, len(names))
	for _, name := range names {
		out = append(out, t.Stats(name))
	}
	return out
}
