// Package catalog records finished captures so the best parameterizations of
// a run can be listed afterwards. It is a log of results, never a source of
// search state.
package catalog

import (
	"context"
	"sort"
	"time"
)

// Capture is one scored parameterization and the atlas written for it.
type Capture struct {
	ID          string
	RunID       string
	Params      string
	Divisor     int
	Score       float64
	Oscillators float64
	Missing     int
	Path        string
	CreatedAt   time.Time
}

// Store persists captures.
type Store interface {
	Init(ctx context.Context) error
	SaveCapture(ctx context.Context, c Capture) error
	TopCaptures(ctx context.Context, limit int) ([]Capture, error)
}

// SortByScore orders captures best first; ties keep the earlier capture.
func SortByScore(captures []Capture) {
	sort.SliceStable(captures, func(i, j int) bool {
		if captures[i].Score != captures[j].Score {
			return captures[i].Score > captures[j].Score
		}
		return captures[i].CreatedAt.Before(captures[j].CreatedAt)
	})
}
