// Package refractory is a parameterized Brian's Brain: a firing cell spends
// one generation refractory before it can fire again, and resting cells fire
// according to the parameter table.
package refractory

import "ca-explorer/internal/core"

const (
	stateRest       = 0
	stateRefractory = 255
)

// Brain is a Brian's Brain generalized by a ParameterVector. A resting cell
// sums the states of its eight firing neighbours and takes table[sum % d].
// Any other non-refractory state becomes refractory, and refractory cells
// rest.
type Brain struct {
	w, h  int
	table []uint8
	d     int
	cur   []uint8
	nxt   []uint8
}

// New creates a Brain simulation with the provided dimensions.
func New(w, h int) *Brain {
	cells := make([]uint8, w*h)
	return &Brain{w: w, h: h, table: []uint8{stateRest}, d: 1, cur: cells, nxt: make([]uint8, len(cells))}
}

// Name identifies the simulation.
func (b *Brain) Name() string { return "refractory" }

// Size returns the grid dimensions.
func (b *Brain) Size() core.Size { return core.Size{W: b.w, H: b.h} }

// Cells exposes the current state buffer.
func (b *Brain) Cells() []uint8 { return b.cur }

// SetParameters swaps the firing table. Invalid vectors are ignored.
func (b *Brain) SetParameters(p core.ParameterVector) {
	if p.Validate() != nil {
		return
	}
	active := p.Active()
	b.table = make([]uint8, len(active))
	for i, v := range active {
		b.table[i] = uint8(int(v) & 0xff)
	}
	b.d = len(active)
}

// Reset fires one cell in eight with a state drawn from [1, d].
func (b *Brain) Reset(seed int64) {
	rng := core.NewRNG(seed)
	for i := range b.cur {
		if rng.IntN(8) == 0 {
			b.cur[i] = uint8(1 + rng.IntN(b.d))
			continue
		}
		b.cur[i] = stateRest
	}
}

// Step advances the automaton by one tick.
func (b *Brain) Step() {
	w, h := b.w, b.h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			switch b.cur[idx] {
			case stateRest:
				sum := 0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx := (x + dx + w) % w
						ny := (y + dy + h) % h
						if v := b.cur[ny*w+nx]; v != stateRefractory {
							sum += int(v)
						}
					}
				}
				b.nxt[idx] = b.table[sum%b.d]
			case stateRefractory:
				b.nxt[idx] = stateRest
			default:
				b.nxt[idx] = stateRefractory
			}
		}
	}
	b.cur, b.nxt = b.nxt, b.cur
}

func init() {
	core.Register("refractory", func(size core.Size) core.Sim {
		return New(size.W, size.H)
	})
}
