package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"time"

	"ca-explorer/internal/core"
)

// ErrPersist wraps every failure to write an atlas to disk. Callers treat it
// as a lost artifact, not a lost search.
var ErrPersist = errors.New("failed to persist artifact")

// ErrNoFrames is returned when encoding an empty atlas.
var ErrNoFrames = errors.New("atlas has no frames")

// DelayCentiseconds converts a frame delay to GIF units, rounding to the
// nearest hundredth of a second.
func DelayCentiseconds(d time.Duration) int {
	cs := int((d + 5*time.Millisecond) / (10 * time.Millisecond))
	if cs < 1 {
		cs = 1
	}
	return cs
}

// Encode writes frames as a looping GIF with a shared palette.
func Encode(w io.Writer, frames []*image.Paletted, delay time.Duration) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	cs := DelayCentiseconds(delay)
	anim := &gif.GIF{
		Image:     frames,
		Delay:     make([]int, len(frames)),
		LoopCount: 0,
		Config: image.Config{
			ColorModel: frames[0].Palette,
			Width:      frames[0].Bounds().Dx(),
			Height:     frames[0].Bounds().Dy(),
		},
	}
	for i := range anim.Delay {
		anim.Delay[i] = cs
	}
	return gif.EncodeAll(w, anim)
}

// FileName encodes the score and the trimmed parameter vector.
func FileName(score float64, params core.ParameterVector) string {
	return fmt.Sprintf("SCORE %08.2f PARAMS %s.gif", score, params.Slug())
}

// Bucket groups captures by divisor.
func Bucket(params core.ParameterVector) string {
	return fmt.Sprintf("d%03d", params.Divisor())
}

// Write encodes the frames into dir/bucket/name in a single open, write,
// close sequence and returns the path. Every error wraps ErrPersist.
func Write(dir, bucket, name string, frames []*image.Paletted, delay time.Duration) (path string, err error) {
	folder := filepath.Join(dir, bucket)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersist, err)
	}
	path = filepath.Join(folder, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersist, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %v", ErrPersist, cerr)
		}
	}()
	if err := Encode(f, frames, delay); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return path, nil
}
