package render

import (
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mad-ising/internal/core"
)

func checker(n int) *core.SpinGrid {
	g := core.NewSpinGrid(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if (i+j)%2 == 0 {
				g.Set(i, j, core.SpinUp)
			}
		}
	}
	return g
}

func TestGrayImageMapsSpins(t *testing.T) {
	g := core.NewSpinGrid(3)
	g.Set(0, 2, core.SpinUp)
	img := GrayImage(g)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, color.Gray{Y: 255}, img.GrayAt(2, 0))
	assert.Equal(t, color.Gray{Y: 0}, img.GrayAt(0, 2))
}

func TestUpscaleKeepsCellsSquare(t *testing.T) {
	img := GrayImage(checker(2))
	big := Upscale(img, 4)
	assert.Equal(t, 8, big.Bounds().Dx())
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, uint8(255), big.GrayAt(x, y).Y)
			assert.Equal(t, uint8(0), big.GrayAt(x+4, y).Y)
		}
	}
	assert.Same(t, img, Upscale(img, 1))
}

func TestFillSpinRGBA(t *testing.T) {
	buf := make([]byte, 12)
	fillSpinRGBA(buf, []int8{core.SpinUp, core.SpinDown, core.SpinUp}, DefaultSpinColors)
	assert.Equal(t, []byte{255, 255, 255, 255, 0, 0, 0, 255, 255, 255, 255, 255}, buf)

	red := SpinColors{Up: color.RGBA{R: 200, A: 255}, Down: color.RGBA{B: 90, A: 128}}
	fillSpinRGBA(buf[:8], []int8{core.SpinDown, core.SpinUp}, red)
	assert.Equal(t, []byte{0, 0, 90, 128, 200, 0, 0, 255}, buf[:8])
}

func TestSnapshotsWritePNGs(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "image_")
	s := &PNGSnapshots{Prefix: prefix, Scale: 2}
	for step := 0; step < 3; step++ {
		require.NoError(t, s.Snapshot(step, checker(4)))
	}
	require.Len(t, s.Frames(), 3)
	assert.Equal(t, prefix+"2.png", s.Frames()[2].Path)

	f, err := os.Open(prefix + "0.png")
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestSnapshotMissingDirectory(t *testing.T) {
	s := &PNGSnapshots{Prefix: filepath.Join(t.TempDir(), "nope", "img_")}
	assert.Error(t, s.Snapshot(0, checker(2)))
}

func TestCollectFramesSortsNumerically(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "image_")
	s := &PNGSnapshots{Prefix: prefix}
	for _, step := range []int{10, 2, 1, 9} {
		require.NoError(t, s.Snapshot(step, checker(2)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image_x.png"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other_3.png"), nil, 0o644))

	frames, err := CollectFrames(prefix)
	require.NoError(t, err)
	var steps []int
	for _, fr := range frames {
		steps = append(steps, fr.Step)
	}
	assert.Equal(t, []int{1, 2, 9, 10}, steps)
}

func TestAnimationPath(t *testing.T) {
	assert.Equal(t, "run.gif", AnimationPath("run"))
	assert.Equal(t, "run.avi", AnimationPath("run.avi"))
	assert.Equal(t, "out/run.gif", AnimationPath("out/run.gif"))
}

func TestAnimationWritesGIF(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "image_")
	s := &PNGSnapshots{Prefix: prefix}
	for step := 0; step < 3; step++ {
		require.NoError(t, s.Snapshot(step, checker(4)))
	}
	a := &Animation{Prefix: prefix, Name: filepath.Join(dir, "anim")}
	require.NoError(t, a.Finalize())

	f, err := os.Open(a.Path())
	require.NoError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 3)
	assert.Equal(t, []int{20, 20, 20}, anim.Delay)
	assert.Equal(t, 0, anim.LoopCount)
}

func TestAnimationWritesAVI(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "image_")
	s := &PNGSnapshots{Prefix: prefix, Scale: 4}
	for step := 0; step < 2; step++ {
		require.NoError(t, s.Snapshot(step, checker(4)))
	}
	a := &Animation{Prefix: prefix, Name: filepath.Join(dir, "anim.avi")}
	require.NoError(t, a.Finalize())
	info, err := os.Stat(a.Path())
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestAnimationWithoutFrames(t *testing.T) {
	dir := t.TempDir()
	a := &Animation{Prefix: filepath.Join(dir, "image_"), Name: filepath.Join(dir, "anim")}
	assert.ErrorIs(t, a.Finalize(), ErrNoFrames)
}
