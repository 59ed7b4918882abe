package metrics

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTrace = []Record{
	{Step: 0, Magnetisation: 0.5, Energy: -32},
	{Step: 1, Magnetisation: 0.125, Energy: -28.5},
	{Step: 2, Magnetisation: -0.0625, Energy: -40},
	{Step: 3, Magnetisation: 1, Energy: 0.1},
	{Step: 4, Magnetisation: 0, Energy: math.Copysign(0, -1)},
}

func TestFormatValue(t *testing.T) {
	cases := map[float64]string{
		0.5:          "0.5",
		-32:          "-32.0",
		0:            "0.0",
		1e-3:         "0.001",
		math.NaN():   "NaN",
		math.Inf(1):  "+Inf",
		-0.333333333: "-0.333333333",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatValue(in))
	}
	assert.Equal(t, "7\t-2.0\n", FormatLine(7, -2))
	assert.Equal(t, "0.0", FormatValue(math.Copysign(0, -1)))
}

func TestFilesGolden(t *testing.T) {
	dir := t.TempDir()
	magPath := filepath.Join(dir, "mag.txt")
	energyPath := filepath.Join(dir, "energy.txt")

	files, err := OpenFiles(magPath, energyPath)
	require.NoError(t, err)
	assert.Equal(t, []string{magPath, energyPath}, files.Paths())
	for _, rec := range sampleTrace {
		require.NoError(t, files.Append(rec))
	}
	require.NoError(t, files.Close())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	mag, err := os.ReadFile(magPath)
	require.NoError(t, err)
	g.Assert(t, "magnetisation_tsv", mag)

	energy, err := os.ReadFile(energyPath)
	require.NoError(t, err)
	g.Assert(t, "energy_tsv", energy)
}

func TestFilesTruncateOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energy.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\tcontent\n"), 0o644))

	files, err := OpenFiles("", path)
	require.NoError(t, err)
	require.NoError(t, files.Append(Record{Step: 0, Energy: -4}))
	require.NoError(t, files.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0\t-4.0\n", string(data))
}

func TestOpenFilesFailsOnMissingDirectory(t *testing.T) {
	_, err := OpenFiles(filepath.Join(t.TempDir(), "missing", "mag.txt"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTSVRejectsOutOfOrderSteps(t *testing.T) {
	tsv, err := CreateTSV(filepath.Join(t.TempDir(), "m.txt"))
	require.NoError(t, err)
	defer tsv.Close()

	require.NoError(t, tsv.Write(3, 0.1))
	err = tsv.Write(3, 0.2)
	var orderErr *OrderError
	require.True(t, errors.As(err, &orderErr))
	assert.Equal(t, 3, orderErr.Prev)
}

func TestSeriesAppendOrder(t *testing.T) {
	var s Series
	for _, rec := range sampleTrace {
		require.NoError(t, s.Append(rec))
	}
	assert.Equal(t, 5, s.Len())
	assert.Error(t, s.Append(Record{Step: 1}))
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, Steps(s.Records()))
	assert.Equal(t, []float64{-32, -28.5, -40, 0.1, 0}, Energies(s.Records()))
}

func TestSummarize(t *testing.T) {
	records := []Record{
		{Step: 0, Magnetisation: 1, Energy: -8},
		{Step: 1, Magnetisation: -1, Energy: -8},
		{Step: 2, Magnetisation: 1, Energy: -4},
		{Step: 3, Magnetisation: -1, Energy: -4},
	}
	s := Summarize(records, 0, 4, 0.5)
	assert.Equal(t, 4, s.Samples)
	assert.InDelta(t, 0, s.MeanMag, 1e-12)
	assert.InDelta(t, 1, s.MeanAbsMag, 1e-12)
	assert.InDelta(t, math.Sqrt(4.0/3.0), s.StdMag, 1e-12)
	assert.InDelta(t, -1.5, s.MeanEnergy, 1e-12)
	assert.InDelta(t, 1.0/3.0, s.HeatCapacity, 1e-12)
	assert.InDelta(t, 0, s.Susceptibility, 1e-12)

	burned := Summarize(records, 2, 4, 0.5)
	assert.Equal(t, 2, burned.Samples)
	assert.InDelta(t, -1, burned.MeanEnergy, 1e-12)

	assert.Equal(t, Summary{}, Summarize(records, 10, 4, 0.5))
	single := Summarize(records[:1], 0, 4, 0.5)
	assert.Equal(t, 1, single.Samples)
	assert.Zero(t, single.StdMag)
}

func TestRenderChartProducesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, sampleTrace, 16))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 960, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestRenderChartFlatSeries(t *testing.T) {
	flat := []Record{{Step: 0, Magnetisation: 1, Energy: -2}, {Step: 1, Magnetisation: 1, Energy: -2}}
	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, flat, 1))
}

func TestPlotNeedsTwoRecords(t *testing.T) {
	p := &Plot{Path: filepath.Join(t.TempDir(), "plot.png"), Spins: 4}
	require.NoError(t, p.Append(sampleTrace[0]))
	assert.ErrorIs(t, p.Finalize(), ErrTooFewPoints)
	_, err := os.Stat(p.Path)
	assert.True(t, os.IsNotExist(err), "no file should be created for a rejected plot")

	require.NoError(t, p.Append(sampleTrace[1]))
	require.NoError(t, p.Finalize())
	_, err = os.Stat(p.Path)
	assert.NoError(t, err)
}

func TestTimings(t *testing.T) {
	tm := NewTimings()
	tm.Observe("sweep", time.Second)
	tm.Observe("sweep", 3*time.Second)
	require.NoError(t, tm.Time("snapshot", func() error { return nil }))

	s := tm.Stats("sweep")
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 4*time.Second, s.Total)
	assert.InDelta(t, 2, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt2, s.StdDev, 1e-9)

	all := tm.All()
	require.Len(t, all, 2)
	assert.Equal(t, "snapshot", all[0].Name)
	assert.Equal(t, "sweep", all[1].Name)

	var nilTimings *Timings
	nilTimings.Observe("x", time.Second)
	assert.Nil(t, nilTimings.All())
}
