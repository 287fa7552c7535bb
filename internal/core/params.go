package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParameterCapacity is the fixed length of a ParameterVector.
const ParameterCapacity = 128

// ErrInvalidDivisor reports a divisor outside (0, ParameterCapacity).
var ErrInvalidDivisor = errors.New("invalid divisor")

// ParameterVector holds the kernel arguments of the automaton. Element 0 is
// the divisor d; only elements 1..d are read by the rule. Elements past d are
// padding and keep whatever value they were given.
type ParameterVector [ParameterCapacity]int16

// ParseParameters builds a vector from base-10 arguments. Missing trailing
// elements are zero. A single dash-joined argument, the form used in capture
// file names, is split first.
func ParseParameters(args []string) (ParameterVector, error) {
	var p ParameterVector
	if len(args) == 1 && strings.Contains(strings.TrimPrefix(args[0], "-"), "-") {
		args = splitSlug(args[0])
	}
	if len(args) == 0 {
		return p, fmt.Errorf("parse parameters: %w: no values given", ErrInvalidDivisor)
	}
	if len(args) > ParameterCapacity {
		return p, fmt.Errorf("parse parameters: %d values exceed capacity %d", len(args), ParameterCapacity)
	}
	for i, arg := range args {
		v, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 16)
		if err != nil {
			return p, fmt.Errorf("parse parameters: element %d: %w", i, err)
		}
		p[i] = int16(v)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("parse parameters: %w", err)
	}
	return p, nil
}

// splitSlug undoes Slug. A dash that follows a separator is a minus sign, so
// "2--1-1" is 2, -1, 1.
func splitSlug(s string) []string {
	var parts []string
	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] == '-' && s[i-1] != '-' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// Divisor returns the active length, element 0.
func (p *ParameterVector) Divisor() int { return int(p[0]) }

// Validate checks 0 < divisor < ParameterCapacity.
func (p *ParameterVector) Validate() error {
	if d := p.Divisor(); d <= 0 || d >= ParameterCapacity {
		return fmt.Errorf("%w: %d (want 0 < d < %d)", ErrInvalidDivisor, d, ParameterCapacity)
	}
	return nil
}

// Active returns a copy of elements 1..d.
func (p *ParameterVector) Active() []int16 {
	d := p.Divisor()
	if d <= 0 || d >= ParameterCapacity {
		return nil
	}
	out := make([]int16, d)
	copy(out, p[1:d+1])
	return out
}

// Trimmed returns the vector up to and including its last non-zero element.
// The divisor is always included.
func (p *ParameterVector) Trimmed() []int16 {
	last := 0
	for i := len(p) - 1; i > 0; i-- {
		if p[i] != 0 {
			last = i
			break
		}
	}
	out := make([]int16, last+1)
	copy(out, p[:last+1])
	return out
}

// Slug joins the trimmed vector with dashes, e.g. "3-1-0-2".
func (p *ParameterVector) Slug() string {
	return p.join("-")
}

// String joins the trimmed vector with spaces, the form accepted on the
// command line.
func (p *ParameterVector) String() string {
	return p.join(" ")
}

func (p *ParameterVector) join(sep string) string {
	trimmed := p.Trimmed()
	parts := make([]string, len(trimmed))
	for i, v := range trimmed {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, sep)
}
