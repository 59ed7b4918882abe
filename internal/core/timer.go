package core

import "time"

// Throttle limits how often a periodic action (progress lines, HUD refresh) fires.
// It accumulates elapsed wall time and reports true once per interval.
type Throttle struct {
	interval    time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewThrottle constructs a Throttle firing at most once per interval. The first
// call to Ready always fires.
func NewThrottle(interval time.Duration) *Throttle {
	t := &Throttle{now: time.Now}
	t.SetInterval(interval)
	t.accumulator = t.interval
	return t
}

// SetInterval changes the firing interval. Non-positive values fall back to one
// second.
func (t *Throttle) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	t.interval = interval
}

// SetClock replaces the time source, mainly for tests.
func (t *Throttle) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	t.now = now
}

// Ready reports whether the interval has elapsed since the last firing.
func (t *Throttle) Ready() bool {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
	}
	t.accumulator += now.Sub(t.last)
	t.last = now
	if t.accumulator >= t.interval {
		t.accumulator = 0
		return true
	}
	return false
}
