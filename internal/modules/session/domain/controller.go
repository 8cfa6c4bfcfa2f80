package domain

import (
	"fmt"
	"time"
)

// Controller owns the session state machine. It is not safe for concurrent
// use; callers serialize access.
type Controller struct {
	steps   Steps
	timings Timings
	state   State
}

func NewController(steps Steps, timings Timings, exerciseIndex, imageSide int) *Controller {
	c := &Controller{steps: steps, timings: timings}
	c.state = c.idleState(exerciseIndex, imageSide)
	return c
}

func (c *Controller) idleState(exerciseIndex, imageSide int) State {
	if exerciseIndex < 0 || exerciseIndex >= c.steps.ExerciseCount() {
		exerciseIndex = 0
	}
	if imageSide < 0 || imageSide >= c.steps.ImageCount(exerciseIndex) {
		imageSide = 0
	}
	return State{
		Phase:                PhaseIdle,
		ExerciseIndex:        exerciseIndex,
		ImageSide:            imageSide,
		ActivePosition:       1,
		TotalSteps:           c.steps.TotalSteps(exerciseIndex),
		AccumulatedRemaining: c.timings.Massage,
		Remaining:            c.timings.Massage,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

func (c *Controller) Timings() Timings { return c.timings }

// Start begins the routine from Idle, or restarts it from Complete at
// position 1. It is ignored in every other phase.
func (c *Controller) Start(now time.Time) bool {
	switch c.state.Phase {
	case PhaseIdle:
	case PhaseComplete:
		next := c.idleState(c.state.ExerciseIndex, c.state.ImageSide)
		c.state = next
	default:
		return false
	}
	c.state.TotalSteps = c.steps.TotalSteps(c.state.ExerciseIndex)
	c.enter(&c.state, PhaseSealing, now)
	return true
}

// TogglePause pauses or resumes an active massage. Resuming re-seals the
// applicator before the countdown continues.
func (c *Controller) TogglePause(now time.Time) bool {
	if c.state.Phase != PhaseMassaging {
		return false
	}
	if c.state.Paused {
		c.enter(&c.state, PhaseResumeSealing, now)
		return true
	}
	r := Measure(c.state.PhaseStartedAt, c.state.PhaseDuration, now)
	if r.Complete {
		// the next tick releases
		return false
	}
	c.state.AccumulatedRemaining = r.Remaining
	c.state.Remaining = r.Remaining
	c.state.Paused = true
	c.state.PhaseStartedAt = time.Time{}
	return true
}

// SkipAutoStart cuts the between-position countdown short.
func (c *Controller) SkipAutoStart(now time.Time) bool {
	if c.state.Phase != PhaseAutoStarting {
		return false
	}
	c.state.AutoStartRemaining = 0
	c.enter(&c.state, PhaseSealing, now)
	return true
}

// ChangeExercise abandons any run in progress and selects another exercise.
// Unknown indexes fall back to the first exercise. It returns the index in
// effect.
func (c *Controller) ChangeExercise(index int) int {
	c.state = c.idleState(index, 0)
	return c.state.ExerciseIndex
}

// ChangeImageSide switches the displayed image. Single-image exercises and
// out-of-range sides are ignored.
func (c *Controller) ChangeImageSide(side int) bool {
	count := c.steps.ImageCount(c.state.ExerciseIndex)
	if count <= 1 || side < 0 || side >= count {
		return false
	}
	c.state.ImageSide = side
	return true
}

// SyncSteps rereads the step count of the current exercise, for example
// after the catalog was reloaded.
func (c *Controller) SyncSteps() {
	c.state.TotalSteps = c.steps.TotalSteps(c.state.ExerciseIndex)
}

// Reset returns to Idle at position 1 keeping the selection.
func (c *Controller) Reset() {
	c.state = c.idleState(c.state.ExerciseIndex, c.state.ImageSide)
}

// Tick advances the machine to now. It performs at most one transition. The
// entered phase starts at the previous phase's deadline so late ticks do not
// push the rest of the routine back; a phase that would already be over at
// now is anchored at now instead, so repeating a tick at the same instant
// changes nothing. Idle, Complete and a paused massage are left alone. A
// panic while computing the step leaves the state as it was and is returned
// as an error.
func (c *Controller) Tick(now time.Time) (transitions []Transition, err error) {
	defer func() {
		if r := recover(); r != nil {
			transitions = nil
			err = fmt.Errorf("tick at %s: %v", c.state.Phase, r)
		}
	}()
	if !c.state.Phase.Timed() {
		return nil, nil
	}
	if c.state.Phase == PhaseMassaging && c.state.Paused {
		return nil, nil
	}

	next := c.state
	from := next.Phase
	r := Measure(next.PhaseStartedAt, next.PhaseDuration, now)
	deadline := next.PhaseStartedAt.Add(next.PhaseDuration)
	switch next.Phase {
	case PhaseSealing:
		next.SealProgress = r.Fraction
		if r.Complete {
			c.advance(&next, PhaseStarting, deadline, now)
		}
	case PhaseStarting:
		if r.Complete {
			next.AccumulatedRemaining = c.timings.Massage
			c.advance(&next, PhaseMassaging, deadline, now)
		}
	case PhaseMassaging:
		next.Remaining = r.Remaining
		if r.Complete {
			c.advance(&next, PhaseReleasing, deadline, now)
		}
	case PhaseResumeSealing:
		next.ResumeSealProgress = r.Fraction
		if r.Complete {
			c.advance(&next, PhaseMassaging, deadline, now)
		}
	case PhaseReleasing:
		next.ReleaseProgress = 1 - r.Fraction
		if r.Complete {
			next.TotalSteps = c.steps.TotalSteps(next.ExerciseIndex)
			if next.ActivePosition < next.TotalSteps {
				next.ActivePosition++
				c.advance(&next, PhaseAutoStarting, deadline, now)
			} else {
				c.advance(&next, PhaseComplete, deadline, now)
			}
		}
	case PhaseAutoStarting:
		next.AutoStartRemaining = r.Remaining
		if r.Complete {
			c.advance(&next, PhaseSealing, deadline, now)
		}
	}

	c.state = next
	if next.Phase == from {
		return nil, nil
	}
	return []Transition{{From: from, To: next.Phase, At: now, Position: next.ActivePosition}}, nil
}

// advance enters p at the finished phase's deadline, or at now when the
// deadline is in the future or p would already be over.
func (c *Controller) advance(s *State, p Phase, deadline, now time.Time) {
	start := deadline
	if start.After(now) {
		start = now
	}
	c.enter(s, p, start)
	if p.Timed() && !now.Before(start.Add(s.PhaseDuration)) {
		s.PhaseStartedAt = now
	}
}

// enter sets up phase p on s starting at now.
func (c *Controller) enter(s *State, p Phase, now time.Time) {
	s.Phase = p
	s.PhaseStartedAt = now
	switch p {
	case PhaseSealing:
		s.PhaseDuration = c.timings.Seal
		s.SealProgress = 0
		s.Remaining = c.timings.Massage
	case PhaseStarting:
		s.PhaseDuration = c.timings.Start
		s.AccumulatedRemaining = c.timings.Massage
		s.Remaining = c.timings.Massage
		s.Paused = false
	case PhaseMassaging:
		s.PhaseDuration = s.AccumulatedRemaining
		s.Remaining = s.AccumulatedRemaining
		s.Paused = false
	case PhaseResumeSealing:
		s.PhaseDuration = c.timings.ResumeSeal
		s.ResumeSealProgress = 0
	case PhaseReleasing:
		s.PhaseDuration = c.timings.Release
		s.ReleaseProgress = 1
		s.Remaining = 0
	case PhaseAutoStarting:
		s.PhaseDuration = c.timings.AutoStart
		s.AutoStartRemaining = c.timings.AutoStart
		s.ReleaseProgress = 0
	default:
		s.PhaseStartedAt = time.Time{}
		s.PhaseDuration = 0
		s.ReleaseProgress = 0
	}
}
