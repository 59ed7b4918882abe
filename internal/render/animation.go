package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/icza/mjpeg"
	"golang.org/x/image/draw"
)

// FrameDelay is the display time of every animation frame.
const FrameDelay = 200 * time.Millisecond

// ErrNoFrames is returned when an animation is requested but no snapshot files
// match the prefix.
var ErrNoFrames = errors.New("no snapshot frames found")

var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

// AnimationPath appends ".gif" to names without an extension.
func AnimationPath(name string) string {
	if filepath.Ext(name) == "" {
		return name + ".gif"
	}
	return name
}

// CollectFrames finds "{prefix}{step}.png" files and returns them ordered by the
// numeric step, so step 10 follows step 9 rather than step 1.
func CollectFrames(prefix string) ([]Frame, error) {
	dir, base := filepath.Split(prefix)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var frames []Frame
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, base) || !strings.HasSuffix(name, ".png") {
			continue
		}
		digits := strings.TrimSuffix(strings.TrimPrefix(name, base), ".png")
		step, err := strconv.Atoi(digits)
		if err != nil || step < 0 {
			continue
		}
		frames = append(frames, Frame{Step: step, Path: filepath.Join(dir, name)})
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].Step < frames[j].Step })
	return frames, nil
}

// WriteGIF assembles frames into an infinitely looping GIF.
func WriteGIF(path string, frames []Frame) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	anim := &gif.GIF{LoopCount: 0}
	delay := int(FrameDelay / (10 * time.Millisecond))
	for _, fr := range frames {
		img, err := loadPNG(fr.Path)
		if err != nil {
			return err
		}
		pal := image.NewPaletted(img.Bounds(), grayPalette)
		draw.Draw(pal, pal.Bounds(), img, img.Bounds().Min, draw.Src)
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create animation: %w", err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return fmt.Errorf("encode animation: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close animation: %w", err)
	}
	return nil
}

// WriteAVI assembles frames into an MJPEG AVI playing one frame per FrameDelay.
func WriteAVI(path string, frames []Frame) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	first, err := loadPNG(frames[0].Path)
	if err != nil {
		return err
	}
	b := first.Bounds()
	fps := int32(time.Second / FrameDelay)
	aw, err := mjpeg.New(path, int32(b.Dx()), int32(b.Dy()), fps)
	if err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	var buf bytes.Buffer
	for i, fr := range frames {
		img := first
		if i > 0 {
			if img, err = loadPNG(fr.Path); err != nil {
				aw.Close()
				return err
			}
		}
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			aw.Close()
			return fmt.Errorf("encode frame %d: %w", fr.Step, err)
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			aw.Close()
			return fmt.Errorf("write frame %d: %w", fr.Step, err)
		}
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("close video: %w", err)
	}
	return nil
}

// Animation collects the snapshot files of a run and assembles them on
// Finalize. The output format follows the extension of Name: ".avi" produces
// MJPEG video, anything else a GIF.
type Animation struct {
	Prefix string
	Name   string
}

// Path returns the resolved output file name.
func (a *Animation) Path() string { return AnimationPath(a.Name) }

// Finalize builds the animation from the snapshot files on disk.
func (a *Animation) Finalize() error {
	frames, err := CollectFrames(a.Prefix)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("%w for prefix %q", ErrNoFrames, a.Prefix)
	}
	path := a.Path()
	if strings.EqualFold(filepath.Ext(path), ".avi") {
		return WriteAVI(path, frames)
	}
	return WriteGIF(path, frames)
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return img, nil
}
