// Package metrics holds per-macrostep observables and the sinks that persist or
// summarize them.
package metrics

// Record is the observable state after one macrostep.
type Record struct {
	Step          int
	Magnetisation float64
	Energy        float64
}

// Series is an in-memory, append-only metrics sink.
type Series struct {
	records []Record
}

// Append stores rec. Steps must arrive in increasing order.
func (s *Series) Append(rec Record) error {
	if n := len(s.records); n > 0 && rec.Step <= s.records[n-1].Step {
		return &OrderError{Prev: s.records[n-1].Step, Got: rec.Step}
	}
	s.records = append(s.records, rec)
	return nil
}

// Records returns the collected records.
func (s *Series) Records() []Record { return s.records }

// Len returns the number of records.
func (s *Series) Len() int { return len(s.records) }

// Steps returns the step indices as float64, ready for plotting.
func Steps(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(r.Step)
	}
	return out
}

// Magnetisations extracts the magnetisation column.
func Magnetisations(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Magnetisation
	}
	return out
}

// Energies extracts the total energy column.
func Energies(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Energy
	}
	return out
}
