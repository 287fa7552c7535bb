package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Int64 returns a non-negative random int64, used to derive reset seeds.
func (r *RNG) Int64() int64 {
	return r.r.Int64()
}

// FillUniform fills the buffer with values drawn uniformly from [0, n).
func FillUniform(r *rand.Rand, buf []uint8, n int) {
	if n <= 1 {
		for i := range buf {
			buf[i] = 0
		}
		return
	}
	if n > 256 {
		n = 256
	}
	for i := range buf {
		buf[i] = uint8(r.IntN(n))
	}
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
