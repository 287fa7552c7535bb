// Package enginetest provides scripted engines for tests.
package enginetest

import (
	"context"
	"math"

	"ca-explorer/internal/core"
	"ca-explorer/internal/engine"
)

// Call records one Advance request.
type Call struct {
	Params      core.ParameterVector
	Generations int
	Reset       bool
}

// Densities reports a scripted density after each Advance. The first value is
// returned for the reset call, the following ones for each burst; once the
// script runs out the last value repeats.
type Densities struct {
	Values []float64
	Cells  int
	Calls  []Call

	next int
}

// Advance implements engine.Engine.
func (d *Densities) Advance(ctx context.Context, params core.ParameterVector, generations int, reset bool) (engine.LatticeView, error) {
	if err := ctx.Err(); err != nil {
		return engine.LatticeView{}, err
	}
	d.Calls = append(d.Calls, Call{Params: params, Generations: generations, Reset: reset})
	value := 0.0
	if len(d.Values) > 0 {
		i := d.next
		if i >= len(d.Values) {
			i = len(d.Values) - 1
		}
		value = d.Values[i]
	}
	d.next++

	cells := d.Cells
	if cells <= 0 {
		cells = 10000
	}
	view := engine.LatticeView{Size: core.Size{W: cells, H: 1}, Cells: make([]uint8, cells)}
	occupied := int(math.Round(value * float64(cells)))
	for i := 0; i < occupied && i < cells; i++ {
		view.Cells[i] = 1
	}
	return view, nil
}

// Frames replays a fixed list of lattices, one per generation. A reset
// rewinds to frame 0. Advancing past the end repeats the last frame.
type Frames struct {
	Size   core.Size
	Frames [][]uint8
	Calls  []Call

	pos int
}

// Advance implements engine.Engine.
func (f *Frames) Advance(ctx context.Context, params core.ParameterVector, generations int, reset bool) (engine.LatticeView, error) {
	if err := ctx.Err(); err != nil {
		return engine.LatticeView{}, err
	}
	f.Calls = append(f.Calls, Call{Params: params, Generations: generations, Reset: reset})
	if reset {
		f.pos = 0
	}
	f.pos += generations
	i := f.pos
	if i >= len(f.Frames) {
		i = len(f.Frames) - 1
	}
	return engine.LatticeView{Size: f.Size, Cells: f.Frames[i]}, nil
}

// Periodic builds frames for a w*h lattice where cell i follows
// pattern(i, g) at generation g.
func Periodic(w, h, generations int, pattern func(i, g int) uint8) *Frames {
	frames := make([][]uint8, generations+1)
	for g := range frames {
		frame := make([]uint8, w*h)
		for i := range frame {
			frame[i] = pattern(i, g)
		}
		frames[g] = frame
	}
	return &Frames{Size: core.Size{W: w, H: h}, Frames: frames}
}
