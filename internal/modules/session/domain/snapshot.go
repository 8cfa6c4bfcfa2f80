package domain

import (
	"fmt"
	"math"
	"time"
)

// Snapshot is the read model handed to presentation hosts.
type Snapshot struct {
	Phase                   Phase
	PhaseLabel              string
	Paused                  bool
	RemainingSeconds        int
	RemainingSecondsPrecise float64
	// Progress values are percentages in [0,100].
	MassageProgress    float64
	SealProgress       float64
	ReleaseProgress    float64
	ResumeSealProgress float64
	AutoStartCountdown int
	ActivePosition     int
	TotalSteps         int
	ExerciseIndex      int
	ImageSide          int
	ReleasingShortly   bool
	Instruction        string
	ButtonLabel        string
}

const (
	releasingShortlyLow  = 1500 * time.Millisecond
	releasingShortlyHigh = 2000 * time.Millisecond
)

// Snapshot reads the state at now without changing it. Running phases are
// measured live so hosts drawing between ticks see smooth values.
func (c *Controller) Snapshot(now time.Time) Snapshot {
	s := c.state
	if s.Phase.Timed() && !s.PhaseStartedAt.IsZero() {
		r := Measure(s.PhaseStartedAt, s.PhaseDuration, now)
		switch s.Phase {
		case PhaseSealing:
			s.SealProgress = r.Fraction
		case PhaseMassaging:
			s.Remaining = r.Remaining
		case PhaseResumeSealing:
			s.ResumeSealProgress = r.Fraction
		case PhaseReleasing:
			s.ReleaseProgress = 1 - r.Fraction
		case PhaseAutoStarting:
			s.AutoStartRemaining = r.Remaining
		}
	}

	snap := Snapshot{
		Phase:                   s.Phase,
		PhaseLabel:              s.Phase.Label(),
		Paused:                  s.Paused,
		RemainingSeconds:        ceilSeconds(s.Remaining),
		RemainingSecondsPrecise: s.Remaining.Seconds(),
		SealProgress:            s.SealProgress * 100,
		ReleaseProgress:         s.ReleaseProgress * 100,
		ResumeSealProgress:      s.ResumeSealProgress * 100,
		ActivePosition:          s.ActivePosition,
		TotalSteps:              s.TotalSteps,
		ExerciseIndex:           s.ExerciseIndex,
		ImageSide:               s.ImageSide,
	}
	switch s.Phase {
	case PhaseMassaging, PhaseResumeSealing:
		if c.timings.Massage > 0 {
			snap.MassageProgress = float64(c.timings.Massage-s.Remaining) / float64(c.timings.Massage) * 100
		}
	case PhaseReleasing:
		snap.MassageProgress = 100
	case PhaseAutoStarting:
		snap.AutoStartCountdown = ceilSeconds(s.AutoStartRemaining)
	}
	snap.ReleasingShortly = s.Phase == PhaseMassaging && !s.Paused &&
		s.Remaining > releasingShortlyLow && s.Remaining <= releasingShortlyHigh
	snap.Instruction = instruction(snap)
	snap.ButtonLabel = buttonLabel(snap)
	return snap
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func instruction(s Snapshot) string {
	switch s.Phase {
	case PhaseIdle:
		return fmt.Sprintf("Place applicator on position %d and press Start", s.ActivePosition)
	case PhaseSealing, PhaseResumeSealing:
		return "Applicator sealing"
	case PhaseStarting:
		return "Starting Hybrid Massage"
	case PhaseMassaging:
		if s.Paused {
			return "Massage paused, press to re-seal and continue"
		}
		if s.ReleasingShortly {
			return "Applicator releasing shortly..."
		}
		return "Hybrid Massage in progress"
	case PhaseReleasing:
		return "Applicator releasing"
	case PhaseAutoStarting:
		return fmt.Sprintf("Place applicator on position %d. Auto starting", s.ActivePosition)
	case PhaseComplete:
		return "Exercise complete!"
	}
	return ""
}

func buttonLabel(s Snapshot) string {
	switch s.Phase {
	case PhaseSealing, PhaseResumeSealing:
		return "Sealing..."
	case PhaseStarting, PhaseMassaging, PhaseReleasing:
		return Clock(s.RemainingSeconds)
	case PhaseAutoStarting:
		return Clock(s.AutoStartCountdown)
	}
	return "Start"
}

// Clock formats whole seconds as mm:ss.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
