package kernel

import (
	"ca-explorer/internal/core"
)

// Kernel is a totalistic automaton driven by a ParameterVector. Each cell
// sums itself and its eight neighbours, and the sum modulo the divisor picks
// the next value out of the active parameters. Edges wrap.
type Kernel struct {
	w, h   int
	params core.ParameterVector
	table  []uint8
	cur    []uint8
	nxt    []uint8
}

// New returns a Kernel simulation with the provided dimensions.
func New(w, h int) *Kernel {
	cells := make([]uint8, w*h)
	k := &Kernel{w: w, h: h, cur: cells, nxt: make([]uint8, len(cells))}
	k.params[0] = 1
	k.table = []uint8{0}
	return k
}

// Name returns the simulation identifier.
func (k *Kernel) Name() string { return "kernel" }

// Size returns the grid dimensions.
func (k *Kernel) Size() core.Size { return core.Size{W: k.w, H: k.h} }

// Cells exposes the current grid values.
func (k *Kernel) Cells() []uint8 { return k.cur }

// SetParameters swaps the rule table. Vectors with an invalid divisor are
// ignored.
func (k *Kernel) SetParameters(p core.ParameterVector) {
	if p.Validate() != nil {
		return
	}
	k.params = p
	active := p.Active()
	k.table = make([]uint8, len(active))
	for i, v := range active {
		k.table[i] = cellValue(v)
	}
}

// Reset fills the board with values drawn uniformly from [0, divisor).
func (k *Kernel) Reset(seed int64) {
	rng := core.NewRNG(seed).Source()
	core.FillUniform(rng, k.cur, k.params.Divisor())
}

// Step advances the simulation by one generation.
func (k *Kernel) Step() {
	w, h := k.w, k.h
	d := len(k.table)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx := (x + dx + w) % w
					ny := (y + dy + h) % h
					sum += int(k.cur[ny*w+nx])
				}
			}
			k.nxt[y*w+x] = k.table[sum%d]
		}
	}
	k.cur, k.nxt = k.nxt, k.cur
}

// cellValue reduces a parameter into the uint8 cell range, wrapping negative
// values the same way as large ones.
func cellValue(v int16) uint8 {
	return uint8(((int(v) % 256) + 256) % 256)
}

func init() {
	core.Register("kernel", func(size core.Size) core.Sim {
		return New(size.W, size.H)
	})
}
