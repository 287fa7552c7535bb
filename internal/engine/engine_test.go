package engine

import (
	"context"
	"errors"
	"testing"

	"ca-explorer/internal/core"
	_ "ca-explorer/internal/sims/kernel"
)

type countingSim struct {
	size   core.Size
	cells  []uint8
	steps  int
	resets []int64
	params core.ParameterVector
}

func (s *countingSim) Name() string                         { return "counting" }
func (s *countingSim) Size() core.Size                      { return s.size }
func (s *countingSim) Reset(seed int64)                     { s.resets = append(s.resets, seed) }
func (s *countingSim) Step()                                { s.steps++ }
func (s *countingSim) Cells() []uint8                       { return s.cells }
func (s *countingSim) SetParameters(p core.ParameterVector) { s.params = p }

func TestSimEngineAdvance(t *testing.T) {
	sim := &countingSim{size: core.Size{W: 2, H: 2}, cells: []uint8{0, 1, 0, 3}}
	eng := NewSimEngine(sim, core.NewRNG(1))

	var p core.ParameterVector
	p[0] = 2
	p[1] = 1

	view, err := eng.Advance(context.Background(), p, 20, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim.steps != 20 || len(sim.resets) != 1 {
		t.Fatalf("expected 20 steps and 1 reset, got %d steps %d resets", sim.steps, len(sim.resets))
	}
	if sim.params != p {
		t.Fatal("parameters were not forwarded to the sim")
	}
	if got := view.Density(); got != 0.5 {
		t.Fatalf("expected density 0.5, got %f", got)
	}

	if _, err := eng.Advance(context.Background(), p, 1, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sim.resets) != 1 {
		t.Fatal("advance without reset must not reinitialise the sim")
	}
}

func TestSimEngineRejectsInvalidInput(t *testing.T) {
	sim := &countingSim{size: core.Size{W: 1, H: 1}, cells: []uint8{0}}
	eng := NewSimEngine(sim, core.NewRNG(1))

	var bad core.ParameterVector
	if _, err := eng.Advance(context.Background(), bad, 1, true); !errors.Is(err, core.ErrInvalidDivisor) {
		t.Fatalf("expected ErrInvalidDivisor, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	good := bad
	good[0] = 1
	if _, err := eng.Advance(ctx, good, 1, false); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sim.steps != 0 {
		t.Fatal("no steps should run after cancellation")
	}
}

func TestNewRegistered(t *testing.T) {
	eng, err := NewRegistered("kernel", core.Size{W: 8, H: 8}, core.NewRNG(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng.Name() != "kernel" {
		t.Fatalf("unexpected sim %q", eng.Name())
	}
	if _, err := NewRegistered("nope", core.Size{W: 8, H: 8}, core.NewRNG(3)); err == nil {
		t.Fatal("expected error for unknown sim")
	}
	if _, err := NewRegistered("kernel", core.Size{W: 0, H: 8}, core.NewRNG(3)); err == nil {
		t.Fatal("expected error for empty lattice")
	}
}

func TestLatticeViewHelpers(t *testing.T) {
	v := LatticeView{Size: core.Size{W: 3, H: 2}, Cells: []uint8{1, 2, 3, 4, 5, 6}}
	if got := v.At(-1, 0); got != 3 {
		t.Fatalf("expected wrapped read 3, got %d", got)
	}
	if got := v.At(0, 2); got != 1 {
		t.Fatalf("expected vertical wrap to row 0, got %d", got)
	}
	sample := v.Sample(2)
	if len(sample) != 3 || sample[0] != 1 || sample[1] != 3 || sample[2] != 5 {
		t.Fatalf("unexpected sample %v", sample)
	}
	clone := v.Clone()
	clone.Cells[0] = 9
	if v.Cells[0] != 1 {
		t.Fatal("clone must not alias the original")
	}
}
