package atlas

import (
	"image"
	"time"

	"golang.org/x/image/draw"

	"ca-explorer/internal/core"
	"ca-explorer/internal/periodicity"
	"ca-explorer/internal/render"
)

// Config controls slot allocation and frame geometry.
type Config struct {
	Slots               int
	Columns             int
	ClipRadius          int
	VisibilityThreshold float64
	MaxAttempts         int
	FrameDelay          time.Duration
	Scale               int
}

// DefaultConfig returns the standard configuration: sixteen 41x41 clips on a
// 4x4 grid at roughly 30 frames per second.
func DefaultConfig() Config {
	return Config{
		Slots:               16,
		Columns:             4,
		ClipRadius:          20,
		VisibilityThreshold: 0.01,
		MaxAttempts:         10000,
		FrameDelay:          33 * time.Millisecond,
		Scale:               1,
	}
}

// Atlas is the set of frames for one scored recording.
type Atlas struct {
	Slots  []Slot
	Picks  []Pick
	Frames []*image.Paletted
}

// Build allocates slots, picks positions and composes the frames. It returns
// false when no period is dense enough to show.
func Build(rec *periodicity.Recording, h periodicity.Histogram, rng *core.RNG, cfg Config) (Atlas, bool) {
	slots := AllocateSlots(h, cfg.VisibilityThreshold, cfg.Slots)
	if len(slots) == 0 {
		return Atlas{}, false
	}
	picks := SelectPositions(rec, slots, rng, cfg.MaxAttempts)
	return Atlas{Slots: slots, Picks: picks, Frames: ComposeFrames(rec, picks, cfg)}, true
}

// FrameBounds returns the size of an unscaled frame: clips separated and
// bordered by one-cell gridlines.
func FrameBounds(cfg Config) image.Rectangle {
	side := 2*cfg.ClipRadius + 1
	cols := cfg.Columns
	if cols <= 0 {
		cols = 1
	}
	rows := (cfg.Slots + cols - 1) / cols
	if rows <= 0 {
		rows = 1
	}
	return image.Rect(0, 0, cols*(side+1)+1, rows*(side+1)+1)
}

// ComposeFrames renders one frame per recorded generation. Picks without a
// position leave their cell blank.
func ComposeFrames(rec *periodicity.Recording, picks []Pick, cfg Config) []*image.Paletted {
	palette := render.Palette()
	bounds := FrameBounds(cfg)
	painter := render.ClipPainter{Radius: cfg.ClipRadius}
	side := painter.Side()
	cols := cfg.Columns
	if cols <= 0 {
		cols = 1
	}

	frames := make([]*image.Paletted, 0, rec.Generations())
	for g := 0; g < rec.Generations(); g++ {
		frame := image.NewPaletted(bounds, palette)
		render.FillRect(frame, bounds, render.IndexBackground)
		grid := core.WrapByteGrid(rec.Size.W, rec.Size.H, rec.Frame(g))
		for i, pick := range picks {
			if !pick.OK {
				continue
			}
			origin := image.Pt(1+(i%cols)*(side+1), 1+(i/cols)*(side+1))
			if !origin.In(bounds) {
				continue
			}
			cx, cy := grid.Coords(pick.Index)
			painter.Paint(frame, origin, grid, cx, cy, true)
		}
		frames = append(frames, upscale(frame, cfg.Scale))
	}
	return frames
}

func upscale(src *image.Paletted, scale int) *image.Paletted {
	if scale <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale), src.Palette)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
