package domain

import "time"

// Reading is the Phase Clock's view of a timed phase at one instant.
type Reading struct {
	Elapsed   time.Duration
	Remaining time.Duration
	// Fraction is elapsed/duration clamped to [0,1].
	Fraction float64
	Complete bool
}

// Measure derives progress from the phase start and now. It never
// accumulates, so missed or late ticks cannot make the result drift, and
// Fraction is exactly 1 once elapsed >= duration. A clock reading before
// startedAt counts as zero elapsed.
func Measure(startedAt time.Time, duration time.Duration, now time.Time) Reading {
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if duration <= 0 {
		return Reading{Elapsed: elapsed, Fraction: 1, Complete: true}
	}
	if elapsed >= duration {
		return Reading{Elapsed: elapsed, Fraction: 1, Complete: true}
	}
	return Reading{
		Elapsed:   elapsed,
		Remaining: duration - elapsed,
		Fraction:  float64(elapsed) / float64(duration),
	}
}
