// Package judge decides from short simulation bursts whether a
// parameterization dies out, grows without bound, or deserves a closer look.
package judge

import (
	"context"
	"fmt"

	"ca-explorer/internal/core"
	"ca-explorer/internal/engine"
)

// Judgement is the outcome of a classification.
type Judgement int

const (
	// Unknown means neither dead nor obviously chaotic yet.
	Unknown Judgement = iota
	// Dead means the lattice emptied out.
	Dead
	// Chaotic means density kept rising above its starting value.
	Chaotic
)

// String returns the lowercase name of the judgement.
func (j Judgement) String() string {
	switch j {
	case Dead:
		return "dead"
	case Chaotic:
		return "chaotic"
	default:
		return "unknown"
	}
}

// IsInteresting is true exactly for Unknown. Slow chaotic growth can slip
// through as interesting.
func (j Judgement) IsInteresting() bool { return j == Unknown }

// Config controls burst length, retry budget and the dead threshold.
type Config struct {
	BurstLength   int
	Attempts      int
	DeadThreshold float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{BurstLength: 20, Attempts: 4, DeadThreshold: 1e-5}
}

// Judge accumulates density snapshots for one classification attempt.
type Judge struct {
	deadThreshold float64
	history       []float64
}

// NewJudge starts a history with the generation-0 density.
func NewJudge(initial float64, deadThreshold float64) *Judge {
	return &Judge{deadThreshold: deadThreshold, history: []float64{initial}}
}

// Push appends a snapshot taken after a burst.
func (j *Judge) Push(density float64) {
	j.history = append(j.history, density)
}

// History returns a copy of the recorded densities, generation 0 first.
func (j *Judge) History() []float64 {
	return append([]float64(nil), j.history...)
}

// Judgement evaluates the history. Growth is compared against the initial
// snapshot, not the previous one, and is checked before emptiness.
func (j *Judge) Judgement() Judgement {
	if len(j.history) <= 1 {
		return Unknown
	}
	d0 := j.history[0]
	growing := true
	for _, d := range j.history[1:] {
		if d <= d0 {
			growing = false
			break
		}
	}
	if growing {
		return Chaotic
	}
	if j.history[len(j.history)-1] < j.deadThreshold {
		return Dead
	}
	return Unknown
}

// Result is the outcome of Classify.
type Result struct {
	Judgement Judgement
	History   []float64
	Bursts    int
}

// Classify resets the lattice, then runs up to cfg.Attempts bursts,
// returning as soon as a burst yields Dead or Chaotic. Unknown after the
// budget is a normal outcome. The context is only consulted between bursts.
func Classify(ctx context.Context, eng engine.Engine, params core.ParameterVector, cfg Config) (Result, error) {
	view, err := eng.Advance(ctx, params, 0, true)
	if err != nil {
		return Result{}, fmt.Errorf("classify: reset: %w", err)
	}
	j := NewJudge(view.Density(), cfg.DeadThreshold)

	res := Result{Judgement: Unknown}
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			res.History = j.History()
			return res, err
		}
		view, err := eng.Advance(ctx, params, cfg.BurstLength, false)
		if err != nil {
			res.History = j.History()
			return res, fmt.Errorf("classify: burst %d: %w", attempt+1, err)
		}
		j.Push(view.Density())
		res.Bursts++
		if verdict := j.Judgement(); verdict != Unknown {
			res.Judgement = verdict
			break
		}
	}
	res.History = j.History()
	return res, nil
}
