package periodicity

const (
	scoreBaseline     = 1000.0
	chaosPenalty      = 20.0
	staticDominance   = 5.0
	staticDemotion    = 0.001
	oscillatorCeiling = 1.0
)

// Histogram buckets sampled cells by their smallest period. Bucket 0 holds
// cells with no period up to MaxPeriod, bucket 1 static occupied cells.
type Histogram struct {
	MaxPeriod int
	Counts    []int
	Density   []float64

	// Sampled is the number of strided positions examined.
	Sampled int
	// EmptyStatic counts positions that stayed empty the whole run. They
	// are excluded from Counts.
	EmptyStatic int
	// Occupancy is the full-lattice density at generation 0.
	Occupancy float64
}

// BuildHistogram examines every Stride-th cell of the recording.
func BuildHistogram(rec *Recording) Histogram {
	max := rec.MaxPeriod()
	h := Histogram{
		MaxPeriod: max,
		Counts:    make([]int, max+1),
		Density:   make([]float64, max+1),
		Occupancy: rec.Occupancy(),
	}
	if rec.Generations() == 0 {
		return h
	}

	for idx := 0; idx < rec.Cells(); idx += rec.Stride {
		h.Sampled++
		period := rec.SmallestPeriod(idx, max)
		if period == 1 && rec.Value(0, idx) == 0 {
			h.EmptyStatic++
			continue
		}
		h.Counts[period]++
	}

	norm := float64(h.Sampled)
	if h.Occupancy > 0 {
		norm *= h.Occupancy
	}
	if norm == 0 {
		return h
	}
	for p, c := range h.Counts {
		h.Density[p] = float64(c) / norm
	}
	return h
}

// OscillatorDensity sums the density of every period of at least 2.
func (h Histogram) OscillatorDensity() float64 {
	total := 0.0
	for p := 2; p < len(h.Density); p++ {
		total += h.Density[p]
	}
	return total
}

// At returns the density for a period, or 0 outside the histogram.
func (h Histogram) At(period int) float64 {
	if period < 0 || period >= len(h.Density) {
		return 0
	}
	return h.Density[period]
}

// Score weights oscillators by the square of their period, penalises
// aperiodic cells unless oscillators dominate, and demotes lattices that are
// mostly frozen.
func (h Histogram) Score() float64 {
	score := 0.0
	for p := 2; p < len(h.Density); p++ {
		score += float64(p*p) * h.Density[p]
	}
	osc := h.OscillatorDensity()
	if osc < oscillatorCeiling {
		score -= chaosPenalty * h.At(0)
	}
	score += scoreBaseline
	if h.At(1) > staticDominance*osc {
		score *= staticDemotion
	}
	return score
}
