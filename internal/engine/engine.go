// Package engine defines the request/response contract between the explorer
// and whatever advances the lattice, plus an adapter over registered sims.
package engine

import (
	"context"
	"fmt"

	"ca-explorer/internal/core"
)

// Engine advances a lattice under a parameter vector. Every call blocks until
// the requested generations are done.
type Engine interface {
	// Advance optionally reinitialises the lattice, then runs generations
	// steps. The returned view is only valid until the next call.
	Advance(ctx context.Context, params core.ParameterVector, generations int, reset bool) (LatticeView, error)
}

// LatticeView is a read-only dense view of cell states in row-major order.
type LatticeView struct {
	Size  core.Size
	Cells []uint8
}

// Density returns the fraction of non-empty cells.
func (v LatticeView) Density() float64 {
	if len(v.Cells) == 0 {
		return 0
	}
	occupied := 0
	for _, c := range v.Cells {
		if c != 0 {
			occupied++
		}
	}
	return float64(occupied) / float64(len(v.Cells))
}

// At reads (x, y) with toroidal wrapping.
func (v LatticeView) At(x, y int) uint8 {
	return core.WrapByteGrid(v.Size.W, v.Size.H, v.Cells).At(x, y)
}

// Sample copies every stride-th cell, starting at index 0.
func (v LatticeView) Sample(stride int) []uint8 {
	if stride <= 0 {
		stride = 1
	}
	out := make([]uint8, 0, (len(v.Cells)+stride-1)/stride)
	for i := 0; i < len(v.Cells); i += stride {
		out = append(out, v.Cells[i])
	}
	return out
}

// Clone returns a view backed by its own copy of the cells.
func (v LatticeView) Clone() LatticeView {
	return LatticeView{Size: v.Size, Cells: append([]uint8(nil), v.Cells...)}
}

// SimEngine runs a core.Sim on the calling goroutine. Reset seeds come from
// the injected RNG so a run is reproducible from one seed.
type SimEngine struct {
	sim core.Sim
	rng *core.RNG
}

// NewSimEngine wraps an existing sim.
func NewSimEngine(sim core.Sim, rng *core.RNG) *SimEngine {
	return &SimEngine{sim: sim, rng: rng}
}

// NewRegistered builds a SimEngine for a sim from the core registry.
func NewRegistered(name string, size core.Size, rng *core.RNG) (*SimEngine, error) {
	factory, ok := core.Sims()[name]
	if !ok {
		return nil, fmt.Errorf("unknown sim %q (available: %v)", name, core.SimNames())
	}
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("invalid lattice size %dx%d", size.W, size.H)
	}
	return NewSimEngine(factory(size), rng), nil
}

// Name reports the wrapped sim.
func (e *SimEngine) Name() string { return e.sim.Name() }

// Advance implements Engine.
func (e *SimEngine) Advance(ctx context.Context, params core.ParameterVector, generations int, reset bool) (LatticeView, error) {
	if err := ctx.Err(); err != nil {
		return LatticeView{}, err
	}
	if err := params.Validate(); err != nil {
		return LatticeView{}, err
	}
	if generations < 0 {
		return LatticeView{}, fmt.Errorf("negative generation count %d", generations)
	}
	if p, ok := e.sim.(core.Parameterized); ok {
		p.SetParameters(params)
	}
	if reset {
		e.sim.Reset(e.rng.Int64())
	}
	for i := 0; i < generations; i++ {
		e.sim.Step()
	}
	return LatticeView{Size: e.sim.Size(), Cells: e.sim.Cells()}, nil
}
