package core

import "time"

// Throttle lets a loop do something at most once per period, however fast
// the loop itself runs. Time accumulates across calls so a slow iteration
// does not reset the schedule.
type Throttle struct {
	period      time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewThrottle constructs a Throttle. A non-positive period disables it.
func NewThrottle(period time.Duration) *Throttle {
	return &Throttle{period: period, now: time.Now}
}

// Due reports whether a full period has elapsed since the last time it
// returned true. The first call only starts the clock.
func (t *Throttle) Due() bool {
	if t.period <= 0 {
		return false
	}
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		return false
	}
	t.accumulator += now.Sub(t.last)
	t.last = now
	if t.accumulator >= t.period {
		t.accumulator %= t.period
		return true
	}
	return false
}
