package domain

import (
	"fmt"
	"time"
)

// Timings are the fixed phase durations.
type Timings struct {
	Seal       time.Duration
	Start      time.Duration
	Massage    time.Duration
	ResumeSeal time.Duration
	Release    time.Duration
	AutoStart  time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		Seal:       3000 * time.Millisecond,
		Start:      2000 * time.Millisecond,
		Massage:    10000 * time.Millisecond,
		ResumeSeal: 3000 * time.Millisecond,
		Release:    3000 * time.Millisecond,
		AutoStart:  5000 * time.Millisecond,
	}
}

func (t Timings) Validate() error {
	for name, d := range map[string]time.Duration{
		"seal":        t.Seal,
		"start":       t.Start,
		"massage":     t.Massage,
		"resume seal": t.ResumeSeal,
		"release":     t.Release,
		"auto start":  t.AutoStart,
	} {
		if d <= 0 {
			return fmt.Errorf("%s duration must be positive, got %s", name, d)
		}
	}
	return nil
}
