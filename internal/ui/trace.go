package ui

// Trace keeps the most recent samples of an observable for plotting.
type Trace struct {
	buf   []float64
	start int
	n     int
}

// NewTrace returns a trace holding at most capacity samples.
func NewTrace(capacity int) *Trace {
	if capacity < 1 {
		capacity = 1
	}
	return &Trace{buf: make([]float64, capacity)}
}

// Push appends v, evicting the oldest sample when full.
func (t *Trace) Push(v float64) {
	if t.n < len(t.buf) {
		t.buf[(t.start+t.n)%len(t.buf)] = v
		t.n++
		return
	}
	t.buf[t.start] = v
	t.start = (t.start + 1) % len(t.buf)
}

// Len returns the number of stored samples.
func (t *Trace) Len() int { return t.n }

// Values returns the samples oldest first.
func (t *Trace) Values() []float64 {
	out := make([]float64, t.n)
	for i := range out {
		out[i] = t.buf[(t.start+i)%len(t.buf)]
	}
	return out
}

// Reset drops every sample.
func (t *Trace) Reset() {
	t.start = 0
	t.n = 0
}
