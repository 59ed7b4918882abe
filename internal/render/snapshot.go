package render

import (
	"fmt"
	"image/png"
	"os"

	"mad-ising/internal/core"
)

// Frame names one snapshot file and the macrostep it shows.
type Frame struct {
	Step int
	Path string
}

// SnapshotPath returns the file name for a macrostep: "{prefix}{step}.png".
func SnapshotPath(prefix string, step int) string {
	return fmt.Sprintf("%s%d.png", prefix, step)
}

// PNGSnapshots writes one grayscale PNG per macrostep.
type PNGSnapshots struct {
	Prefix string
	Scale  int

	frames []Frame
}

// Snapshot encodes the lattice for step.
func (s *PNGSnapshots) Snapshot(step int, g *core.SpinGrid) error {
	path := SnapshotPath(s.Prefix, step)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, Upscale(GrayImage(g), s.Scale)); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot %s: %w", path, err)
	}
	s.frames = append(s.frames, Frame{Step: step, Path: path})
	return nil
}

// Frames returns the snapshots written so far, in step order.
func (s *PNGSnapshots) Frames() []Frame { return s.frames }
