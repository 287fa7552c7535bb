// Package atlas turns a scored recording into an animated contact sheet of
// representative periodic structures.
package atlas

import (
	"sort"

	"ca-explorer/internal/core"
	"ca-explorer/internal/periodicity"
)

// Slot is one cell of the atlas grid, assigned to a period.
type Slot struct {
	Period int
}

// AllocateSlots spreads n slots over the periods whose density exceeds
// threshold. Periods are ordered by ascending density and the rarest ones
// receive the remainder, one extra slot each. Bucket 0 never gets a slot.
func AllocateSlots(h periodicity.Histogram, threshold float64, n int) []Slot {
	var pool []int
	for p := 1; p < len(h.Density); p++ {
		if h.Density[p] > threshold {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 || n <= 0 {
		return nil
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return h.Density[pool[i]] < h.Density[pool[j]]
	})

	each := n / len(pool)
	extra := n % len(pool)
	slots := make([]Slot, 0, n)
	for i, p := range pool {
		count := each
		if i < extra {
			count++
		}
		for k := 0; k < count; k++ {
			slots = append(slots, Slot{Period: p})
		}
	}
	return slots
}

// Pick is a lattice position chosen for a slot. OK is false when no position
// qualified within the attempt budget.
type Pick struct {
	Slot  Slot
	Index int
	OK    bool
}

// Qualifies reports whether cell idx is a fair example of the period: a
// static cell must be occupied at generation 0, an oscillator must repeat at
// the period and at no shorter one.
func Qualifies(rec *periodicity.Recording, idx, period int) bool {
	if period == 1 {
		return rec.Value(0, idx) != 0 && rec.Check(1, idx)
	}
	if !rec.Check(period, idx) {
		return false
	}
	for q := 1; q < period; q++ {
		if rec.Check(q, idx) {
			return false
		}
	}
	return true
}

// SelectPositions samples uniform random lattice positions for every slot
// until one qualifies, giving up after maxAttempts draws for that slot.
func SelectPositions(rec *periodicity.Recording, slots []Slot, rng *core.RNG, maxAttempts int) []Pick {
	picks := make([]Pick, len(slots))
	cells := rec.Cells()
	for i, slot := range slots {
		picks[i] = Pick{Slot: slot}
		for attempt := 0; attempt < maxAttempts; attempt++ {
			idx := rng.IntN(cells)
			if Qualifies(rec, idx, slot.Period) {
				picks[i].Index = idx
				picks[i].OK = true
				break
			}
		}
	}
	return picks
}

// Missing counts picks that found no position.
func Missing(picks []Pick) int {
	n := 0
	for _, p := range picks {
		if !p.OK {
			n++
		}
	}
	return n
}
