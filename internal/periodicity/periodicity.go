// Package periodicity records a run of generations and measures how much of
// the lattice settles into cycles, and at which periods.
package periodicity

import (
	"context"
	"fmt"

	"ca-explorer/internal/core"
	"ca-explorer/internal/engine"
)

// Config controls the length of a recording and the sampling stride.
type Config struct {
	Generations int
	Stride      int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Generations: 100, Stride: 6}
}

// Recording holds one copy of the lattice per generation. It belongs to a
// single scoring pass.
type Recording struct {
	Size   core.Size
	Stride int
	frames [][]uint8
}

// NewRecording builds a recording from prepared frames. All frames must hold
// size.W*size.H cells.
func NewRecording(size core.Size, stride int, frames [][]uint8) (*Recording, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("invalid stride %d", stride)
	}
	for g, f := range frames {
		if len(f) != size.Cells() {
			return nil, fmt.Errorf("frame %d has %d cells, expected %d", g, len(f), size.Cells())
		}
	}
	return &Recording{Size: size, Stride: stride, frames: frames}, nil
}

// Record advances the engine one generation at a time without resetting and
// keeps a copy of every generation. The context is checked between
// generations.
func Record(ctx context.Context, eng engine.Engine, params core.ParameterVector, cfg Config) (*Recording, error) {
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("record: invalid generation count %d", cfg.Generations)
	}
	frames := make([][]uint8, 0, cfg.Generations)
	var size core.Size
	for g := 0; g < cfg.Generations; g++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		view, err := eng.Advance(ctx, params, 1, false)
		if err != nil {
			return nil, fmt.Errorf("record: generation %d: %w", g, err)
		}
		size = view.Size
		frames = append(frames, view.Clone().Cells)
	}
	rec, err := NewRecording(size, cfg.Stride, frames)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	return rec, nil
}

// Generations returns the number of recorded generations.
func (r *Recording) Generations() int { return len(r.frames) }

// Frame returns the lattice at generation g.
func (r *Recording) Frame(g int) []uint8 { return r.frames[g] }

// Cells returns the number of cells per generation.
func (r *Recording) Cells() int { return r.Size.Cells() }

// MaxPeriod is the longest period tested, a third of the recording.
func (r *Recording) MaxPeriod() int { return len(r.frames) / 3 }

// Value returns the state of cell idx at generation g.
func (r *Recording) Value(g, idx int) uint8 { return r.frames[g][idx] }

// Check reports whether cell idx repeats with the given period across the
// whole recording.
func (r *Recording) Check(period, idx int) bool {
	if period <= 0 || period >= len(r.frames) {
		return false
	}
	for g := 0; g+period < len(r.frames); g++ {
		if r.frames[g][idx] != r.frames[g+period][idx] {
			return false
		}
	}
	return true
}

// SmallestPeriod returns the first period in 1..max that passes Check, or 0
// when none does.
func (r *Recording) SmallestPeriod(idx, max int) int {
	for p := 1; p <= max; p++ {
		if r.Check(p, idx) {
			return p
		}
	}
	return 0
}

// Snapshot returns the strided sample of generation g.
func (r *Recording) Snapshot(g int) []uint8 {
	return engine.LatticeView{Size: r.Size, Cells: r.frames[g]}.Sample(r.Stride)
}

// Occupancy is the fraction of non-empty cells at generation 0.
func (r *Recording) Occupancy() float64 {
	if len(r.frames) == 0 {
		return 0
	}
	return engine.LatticeView{Size: r.Size, Cells: r.frames[0]}.Density()
}
