package metrics

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OrderError reports a record whose step does not follow the previous one.
type OrderError struct {
	Prev, Got int
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("metrics step %d does not follow step %d", e.Got, e.Prev)
}

// FormatValue renders a float the way the metrics files expect: shortest
// round-trip digits, with a trailing ".0" on integral values.
func FormatValue(v float64) string {
	if v == 0 {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// FormatLine renders one "{step}\t{value}\n" line.
func FormatLine(step int, v float64) string {
	return strconv.Itoa(step) + "\t" + FormatValue(v) + "\n"
}

// TSVFile is a single-quantity metrics file. Lines are written unbuffered so an
// I/O failure surfaces on the macrostep that caused it.
type TSVFile struct {
	path string
	w    io.WriteCloser
	last int
	any  bool
}

// CreateTSV truncates (or creates) path and returns a writer for it.
func CreateTSV(path string) (*TSVFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create metrics file: %w", err)
	}
	return &TSVFile{path: path, w: f}, nil
}

// Path returns the file location.
func (t *TSVFile) Path() string { return t.path }

// Write appends one line.
func (t *TSVFile) Write(step int, v float64) error {
	if t.any && step <= t.last {
		return &OrderError{Prev: t.last, Got: step}
	}
	if _, err := io.WriteString(t.w, FormatLine(step, v)); err != nil {
		return fmt.Errorf("write %s: %w", t.path, err)
	}
	t.last, t.any = step, true
	return nil
}

// Close closes the underlying file.
func (t *TSVFile) Close() error {
	if err := t.w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", t.path, err)
	}
	return nil
}

// Files writes magnetisation and energy to separate TSV files. Either file may
// be disabled by leaving its path empty.
type Files struct {
	mag    *TSVFile
	energy *TSVFile
}

// OpenFiles truncates the requested files. Nothing is left open on error.
func OpenFiles(magPath, energyPath string) (*Files, error) {
	f := &Files{}
	if magPath != "" {
		mag, err := CreateTSV(magPath)
		if err != nil {
			return nil, err
		}
		f.mag = mag
	}
	if energyPath != "" {
		energy, err := CreateTSV(energyPath)
		if err != nil {
			f.Close()
			return nil, err
		}
		f.energy = energy
	}
	return f, nil
}

// Paths returns the open file paths, magnetisation first.
func (f *Files) Paths() []string {
	var out []string
	if f.mag != nil {
		out = append(out, f.mag.Path())
	}
	if f.energy != nil {
		out = append(out, f.energy.Path())
	}
	return out
}

// Append writes rec to every enabled file.
func (f *Files) Append(rec Record) error {
	if f.mag != nil {
		if err := f.mag.Write(rec.Step, rec.Magnetisation); err != nil {
			return err
		}
	}
	if f.energy != nil {
		if err := f.energy.Write(rec.Step, rec.Energy); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every open file and returns the first error.
func (f *Files) Close() error {
	var first error
	for _, t := range []*TSVFile{f.mag, f.energy} {
		if t == nil {
			continue
		}
		if err := t.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
