package domain

import (
	"fmt"
	"time"
)

const SchemaVersion = 1

// Run is one routine carried through to Complete.
type Run struct {
	ID            string
	ExerciseIndex int
	ExerciseTitle string
	ImageSide     int
	Positions     int
	Pauses        int
	StartedAt     time.Time
	CompletedAt   time.Time
}

func (r Run) Duration() time.Duration {
	d := r.CompletedAt.Sub(r.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

func (r Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if r.Positions <= 0 {
		return fmt.Errorf("run must cover at least one position")
	}
	if r.Pauses < 0 {
		return fmt.Errorf("pause count cannot be negative")
	}
	if r.StartedAt.IsZero() || r.CompletedAt.Before(r.StartedAt) {
		return fmt.Errorf("run must complete after it started")
	}
	return nil
}
