package metrics

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"
)

// ErrTooFewPoints is returned when a chart is requested for fewer than two
// records.
var ErrTooFewPoints = errors.New("a chart needs at least two records")

// RenderChart draws magnetisation (left axis) and energy per spin (right axis)
// against the macrostep index as a PNG.
func RenderChart(w io.Writer, records []Record, spins int) error {
	if len(records) < 2 {
		return ErrTooFewPoints
	}
	if spins <= 0 {
		spins = 1
	}
	steps := Steps(records)
	energies := Energies(records)
	for i := range energies {
		energies[i] /= float64(spins)
	}

	graph := chart.Chart{
		Width:  960,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name: "macrostep",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%d", int(f))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:  "magnetisation",
			Range: paddedRange(Magnetisations(records)),
		},
		YAxisSecondary: chart.YAxis{
			Name:  "energy per spin",
			Range: paddedRange(energies),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "magnetisation",
				XValues: steps,
				YValues: Magnetisations(records),
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    "energy per spin",
				YAxis:   chart.YAxisSecondary,
				XValues: steps,
				YValues: energies,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// paddedRange widens a flat series so the chart never sees a zero-height range.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// Plot buffers records and writes the chart to Path on Finalize.
type Plot struct {
	Path   string
	Spins  int
	series Series
}

// Append buffers rec.
func (p *Plot) Append(rec Record) error { return p.series.Append(rec) }

// Finalize renders the buffered trace.
func (p *Plot) Finalize() error {
	if p.series.Len() < 2 {
		return ErrTooFewPoints
	}
	f, err := os.Create(p.Path)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}
	if err := RenderChart(f, p.series.Records(), p.Spins); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close plot: %w", err)
	}
	return nil
}
