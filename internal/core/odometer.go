package core

import "fmt"

// Increment advances the vector as a mixed-radix odometer of base d over
// positions 1..d, with position d least significant. Position 1 never carries
// and grows without bound.
func (p *ParameterVector) Increment() {
	d := p.mustDivisor()
	p[d]++
	for i := d - 1; i >= 1; i-- {
		if int(p[i+1]) >= d {
			p[i+1] = 0
			p[i]++
		}
	}
}

// Decrement is the inverse of Increment. Decrementing past all-zero digits
// leaves position 1 negative; the caller owns the search direction.
func (p *ParameterVector) Decrement() {
	d := p.mustDivisor()
	p[d]--
	for i := d - 1; i >= 1; i-- {
		if p[i+1] == -1 {
			p[i+1] = int16(d - 1)
			p[i]--
		}
	}
}

func (p *ParameterVector) mustDivisor() int {
	if err := p.Validate(); err != nil {
		panic(fmt.Sprintf("core: odometer on invalid vector: %v", err))
	}
	return p.Divisor()
}
