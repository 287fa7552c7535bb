package refractory

import (
	"slices"
	"testing"

	"ca-explorer/internal/core"
)

func params(values ...int16) core.ParameterVector {
	var p core.ParameterVector
	copy(p[:], values)
	return p
}

func TestFiringCellGoesRefractoryThenRests(t *testing.T) {
	b := New(5, 5)
	b.SetParameters(params(3, 0, 0, 0))
	b.Cells()[12] = 2

	b.Step()
	if got := b.Cells()[12]; got != stateRefractory {
		t.Fatalf("expected refractory after firing, got %d", got)
	}
	b.Step()
	if got := b.Cells()[12]; got != stateRest {
		t.Fatalf("expected rest after refractory, got %d", got)
	}
}

func TestRestingCellsFireFromTable(t *testing.T) {
	b := New(5, 5)
	// sum 1 -> fire with state 4
	b.SetParameters(params(3, 0, 4, 0))
	w := b.Size().W
	b.Cells()[2*w+2] = 1

	b.Step()
	cells := b.Cells()
	if cells[2*w+2] != stateRefractory {
		t.Fatalf("centre should be refractory, got %d", cells[2*w+2])
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if x == 2 && y == 2 {
				continue
			}
			neighbour := x >= 1 && x <= 3 && y >= 1 && y <= 3
			want := uint8(0)
			if neighbour {
				want = 4
			}
			if got := cells[y*w+x]; got != want {
				t.Fatalf("cell (%d,%d)=%d, expected %d", x, y, got, want)
			}
		}
	}
}

func TestRefractoryNeighboursDoNotCount(t *testing.T) {
	b := New(3, 3)
	b.SetParameters(params(2, 0, 1))
	for i := range b.Cells() {
		b.Cells()[i] = stateRefractory
	}
	b.Cells()[4] = stateRest

	b.Step()
	if got := b.Cells()[4]; got != 0 {
		t.Fatalf("refractory neighbours must not excite, got %d", got)
	}
}

func TestResetIsDeterministic(t *testing.T) {
	a, b := New(32, 32), New(32, 32)
	p := params(4, 1, 2, 3, 0)
	a.SetParameters(p)
	b.SetParameters(p)
	a.Reset(11)
	b.Reset(11)
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatal("same seed produced different boards")
	}
	for _, v := range a.Cells() {
		if v > 4 {
			t.Fatalf("reset state %d outside [0, d]", v)
		}
	}
}

func TestRegistered(t *testing.T) {
	f, ok := core.Sims()["refractory"]
	if !ok {
		t.Fatal("refractory not registered")
	}
	if f(core.Size{W: 4, H: 3}).Size() != (core.Size{W: 4, H: 3}) {
		t.Fatal("factory ignored size")
	}
}
