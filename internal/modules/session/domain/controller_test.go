package domain_test

import (
	"testing"
	"time"

	"bodysense/internal/modules/session/domain"
)

type stubSteps struct {
	steps  []int
	images []int
}

func (s stubSteps) ExerciseCount() int { return len(s.steps) }

func (s stubSteps) TotalSteps(i int) int {
	if i < 0 || i >= len(s.steps) {
		i = 0
	}
	return s.steps[i]
}

func (s stubSteps) ImageCount(i int) int {
	if i < 0 || i >= len(s.images) {
		i = 0
	}
	return s.images[i]
}

var (
	base     = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	routines = stubSteps{steps: []int{5, 5, 3}, images: []int{2, 2, 1}}
)

func at(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }

func newController(t *testing.T) *domain.Controller {
	t.Helper()
	return domain.NewController(routines, domain.DefaultTimings(), 0, 0)
}

func tickOnce(t *testing.T, c *domain.Controller, now time.Time) []domain.Transition {
	t.Helper()
	out, err := c.Tick(now)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	return out
}

func TestNewControllerStartsIdle(t *testing.T) {
	t.Parallel()
	c := domain.NewController(routines, domain.DefaultTimings(), 7, 4)
	s := c.State()
	if s.Phase != domain.PhaseIdle || s.ActivePosition != 1 {
		t.Fatalf("expected idle at position 1, got %s at %d", s.Phase, s.ActivePosition)
	}
	if s.ExerciseIndex != 0 || s.ImageSide != 0 {
		t.Fatalf("expected fallback selection 0/0, got %d/%d", s.ExerciseIndex, s.ImageSide)
	}
	if !s.PhaseStartedAt.IsZero() {
		t.Fatalf("idle must not carry a phase start")
	}
}

func TestReferenceScenario(t *testing.T) {
	t.Parallel()
	c := newController(t)
	if !c.Start(at(0)) {
		t.Fatalf("start from idle should apply")
	}
	if got := c.State().Phase; got != domain.PhaseSealing {
		t.Fatalf("expected sealing at t=0, got %s", got)
	}

	steps := []struct {
		ms   int
		want domain.Phase
	}{
		{3000, domain.PhaseStarting},
		{5000, domain.PhaseMassaging},
		{15000, domain.PhaseReleasing},
		{18000, domain.PhaseAutoStarting},
	}
	for _, step := range steps {
		tr := tickOnce(t, c, at(step.ms))
		if len(tr) != 1 || tr[0].To != step.want {
			t.Fatalf("t=%d: expected transition to %s, got %+v", step.ms, step.want, tr)
		}
	}
	snap := c.Snapshot(at(18000))
	if snap.ActivePosition != 2 {
		t.Fatalf("expected position 2, got %d", snap.ActivePosition)
	}
	if snap.AutoStartCountdown != 5 {
		t.Fatalf("expected countdown 5, got %d", snap.AutoStartCountdown)
	}
}

func TestTickBeforeDeadlineKeepsPhase(t *testing.T) {
	t.Parallel()
	c := newController(t)
	c.Start(at(0))
	if tr := tickOnce(t, c, at(2999)); len(tr) != 0 {
		t.Fatalf("sealing must not end early: %+v", tr)
	}
	if p := c.State().SealProgress; p <= 0.99 || p >= 1 {
		t.Fatalf("expected seal progress just under 1, got %f", p)
	}
}

func TestDuplicateTickIsNoop(t *testing.T) {
	t.Parallel()
	c := newController(t)
	c.Start(at(0))
	for _, ms := range []int{1000, 3000, 5000, 9000, 15000, 16500, 18000, 20000, 23000} {
		tickOnce(t, c, at(ms))
		before := c.State()
		if tr := tickOnce(t, c, at(ms)); len(tr) != 0 {
			t.Fatalf("t=%d: duplicate tick transitioned: %+v", ms, tr)
		}
		if after := c.State(); after != before {
			t.Fatalf("t=%d: duplicate tick changed state\nbefore %+v\nafter  %+v", ms, before, after)
		}
	}
}

func TestPauseResumeRestoresRemaining(t *testing.T) {
	t.Parallel()
	c := newController(t)
	c.Start(at(0))
	tickOnce(t, c, at(3000))
	tickOnce(t, c, at(5000))

	if !c.TogglePause(at(8250)) {
		t.Fatalf("pause during massage should apply")
	}
	paused := c.State()
	if !paused.Paused || paused.AccumulatedRemaining != 6750*time.Millisecond {
		t.Fatalf("expected paused with 6.75s left, got %+v", paused)
	}
	if !paused.PhaseStartedAt.IsZero() {
		t.Fatalf("paused massage must not carry a phase start")
	}
	// A long pause consumes nothing.
	if tr := tickOnce(t, c, at(60000)); len(tr) != 0 {
		t.Fatalf("paused massage must not transition: %+v", tr)
	}

	if !c.TogglePause(at(60000)) {
		t.Fatalf("resume should apply")
	}
	if s := c.State(); s.Phase != domain.PhaseResumeSealing || !s.Paused {
		t.Fatalf("expected resume sealing still paused, got %s paused=%v", s.Phase, s.Paused)
	}
	tr := tickOnce(t, c, at(63000))
	if len(tr) != 1 || tr[0].To != domain.PhaseMassaging {
		t.Fatalf("expected re-seal to end in massaging, got %+v", tr)
	}
	s := c.State()
	if s.Paused || s.Remaining != 6750*time.Millisecond {
		t.Fatalf("expected unpaused countdown from 6.75s, got paused=%v remaining=%s", s.Paused, s.Remaining)
	}
	if tr := tickOnce(t, c, at(69749)); len(tr) != 0 {
		t.Fatalf("released early: %+v", tr)
	}
	if tr := tickOnce(t, c, at(69750)); len(tr) != 1 || tr[0].To != domain.PhaseReleasing {
		t.Fatalf("expected release once remaining reached zero, got %+v", tr)
	}
}

func TestReleasingDecaysToZero(t *testing.T) {
	t.Parallel()
	c := newController(t)
	c.Start(at(0))
	tickOnce(t, c, at(3000))
	tickOnce(t, c, at(5000))
	tickOnce(t, c, at(15000))
	if p := c.State().ReleaseProgress; p != 1 {
		t.Fatalf("release should start at 100%%, got %f", p)
	}
	last := 1.0
	for ms := 15050; ms < 18000; ms += 50 {
		tickOnce(t, c, at(ms))
		p := c.State().ReleaseProgress
		if p >= last {
			t.Fatalf("t=%d: release progress must strictly decrease (%f -> %f)", ms, last, p)
		}
		last = p
	}
	tickOnce(t, c, at(18000))
	if s := c.State(); s.ReleaseProgress != 0 || s.Phase != domain.PhaseAutoStarting {
		t.Fatalf("expected 0%% and auto start at 3000ms, got %f in %s", s.ReleaseProgress, s.Phase)
	}
}

func TestThreeStepSequence(t *testing.T) {
	t.Parallel()
	c := domain.NewController(routines, domain.DefaultTimings(), 2, 0)
	c.Start(at(0))
	var seen []domain.Transition
	for ms := 50; ms <= 120000 && c.State().Phase != domain.PhaseComplete; ms += 50 {
		seen = append(seen, tickOnce(t, c, at(ms))...)
	}
	var autoStarts, releases int
	for _, tr := range seen {
		switch tr.To {
		case domain.PhaseAutoStarting:
			autoStarts++
		case domain.PhaseReleasing:
			releases++
		}
	}
	if autoStarts != 2 || releases != 3 {
		t.Fatalf("expected 3 releases and 2 auto starts, got %d and %d", releases, autoStarts)
	}
	last := seen[len(seen)-1]
	if last.From != domain.PhaseReleasing || last.To != domain.PhaseComplete || last.Position != 3 {
		t.Fatalf("expected release at position 3 to complete, got %+v", last)
	}
	if tr := tickOnce(t, c, at(200000)); len(tr) != 0 {
		t.Fatalf("complete must be terminal for ticks: %+v", tr)
	}
}

func TestSkipAutoStart(t *testing.T) {
	t.Parallel()
	c := newController(t)
	if c.SkipAutoStart(at(0)) {
		t.Fatalf("skip outside auto start must be ignored")
	}
	c.Start(at(0))
	for _, ms := range []int{3000, 5000, 15000, 18000} {
		tickOnce(t, c, at(ms))
	}
	tickOnce(t, c, at(19200))
	if got := c.Snapshot(at(19200)).AutoStartCountdown; got != 4 {
		t.Fatalf("expected countdown 4 after 1.2s, got %d", got)
	}
	if !c.SkipAutoStart(at(19500)) {
		t.Fatalf("skip should apply during auto start")
	}
	s := c.State()
	if s.Phase != domain.PhaseSealing || s.ActivePosition != 2 || !s.PhaseStartedAt.Equal(at(19500)) {
		t.Fatalf("expected sealing position 2 from skip instant, got %+v", s)
	}
}

func TestInvalidRequestsLeaveStateUntouched(t *testing.T) {
	t.Parallel()
	c := newController(t)
	before := c.State()
	if c.TogglePause(at(10)) {
		t.Fatalf("pause in idle must be ignored")
	}
	if c.State() != before {
		t.Fatalf("ignored pause changed state")
	}
	c.Start(at(0))
	sealing := c.State()
	if c.Start(at(100)) || c.TogglePause(at(100)) || c.SkipAutoStart(at(100)) {
		t.Fatalf("sealing accepts none of start/pause/skip")
	}
	if c.State() != sealing {
		t.Fatalf("ignored requests changed state")
	}
}

func TestRestartFromComplete(t *testing.T) {
	t.Parallel()
	c := domain.NewController(stubSteps{steps: []int{1}, images: []int{1}}, domain.DefaultTimings(), 0, 0)
	c.Start(at(0))
	for _, ms := range []int{3000, 5000, 15000, 18000} {
		tickOnce(t, c, at(ms))
	}
	if c.State().Phase != domain.PhaseComplete {
		t.Fatalf("single step routine should complete, got %s", c.State().Phase)
	}
	if !c.Start(at(20000)) {
		t.Fatalf("start from complete should apply")
	}
	s := c.State()
	if s.Phase != domain.PhaseSealing || s.ActivePosition != 1 || s.SealProgress != 0 || s.ReleaseProgress != 0 {
		t.Fatalf("expected a fresh sealing phase, got %+v", s)
	}
}

func TestChangeExerciseAndSide(t *testing.T) {
	t.Parallel()
	c := newController(t)
	c.Start(at(0))
	tickOnce(t, c, at(3000))

	if got := c.ChangeExercise(2); got != 2 {
		t.Fatalf("expected exercise 2, got %d", got)
	}
	s := c.State()
	if s.Phase != domain.PhaseIdle || s.TotalSteps != 3 || s.ActivePosition != 1 {
		t.Fatalf("changing exercise should reset to idle with 3 steps, got %+v", s)
	}
	if c.ChangeImageSide(1) {
		t.Fatalf("single image exercise must ignore side changes")
	}
	if got := c.ChangeExercise(99); got != 0 {
		t.Fatalf("unknown exercise should fall back to 0, got %d", got)
	}
	if !c.ChangeImageSide(1) || c.State().ImageSide != 1 {
		t.Fatalf("expected side 1")
	}
	if c.ChangeImageSide(2) {
		t.Fatalf("out of range side must be ignored")
	}
}

func TestLateTicksDoNotDelayLaterPhases(t *testing.T) {
	t.Parallel()
	c := newController(t)
	c.Start(at(0))
	for ms := 70; ms < 18000; ms += 70 {
		tickOnce(t, c, at(ms))
	}
	tickOnce(t, c, at(18000))
	snap := c.Snapshot(at(18000))
	if snap.Phase != domain.PhaseAutoStarting || snap.ActivePosition != 2 {
		t.Fatalf("expected auto start at position 2 on schedule, got %s at %d", snap.Phase, snap.ActivePosition)
	}
	if snap.AutoStartCountdown != 5 {
		t.Fatalf("expected countdown 5, got %d", snap.AutoStartCountdown)
	}
	if !c.State().PhaseStartedAt.Equal(at(18000)) {
		t.Fatalf("auto start should be anchored at the release deadline, got %s", c.State().PhaseStartedAt)
	}
}

func TestVeryLateTickAnchorsAtNow(t *testing.T) {
	t.Parallel()
	c := newController(t)
	c.Start(at(0))
	// starting lasts 2s, so a tick 4s past the seal deadline cannot backdate it
	tr := tickOnce(t, c, at(7000))
	if len(tr) != 1 || tr[0].To != domain.PhaseStarting {
		t.Fatalf("expected one transition to starting, got %+v", tr)
	}
	if !c.State().PhaseStartedAt.Equal(at(7000)) {
		t.Fatalf("expected starting anchored at the tick, got %s", c.State().PhaseStartedAt)
	}
	if tr := tickOnce(t, c, at(7000)); len(tr) != 0 {
		t.Fatalf("repeated late tick transitioned: %+v", tr)
	}
}

type panickySteps struct {
	stubSteps
	broken *bool
}

func (p panickySteps) TotalSteps(i int) int {
	if *p.broken {
		panic("catalog unavailable")
	}
	return p.stubSteps.TotalSteps(i)
}

func TestTickPanicLeavesStateUnchanged(t *testing.T) {
	t.Parallel()
	broken := false
	c := domain.NewController(panickySteps{stubSteps: routines, broken: &broken}, domain.DefaultTimings(), 0, 0)
	c.Start(at(0))
	for _, ms := range []int{3000, 5000, 15000} {
		tickOnce(t, c, at(ms))
	}
	before := c.State()

	broken = true
	tr, err := c.Tick(at(18000))
	if err == nil {
		t.Fatalf("expected an error from a panicking step")
	}
	if len(tr) != 0 {
		t.Fatalf("failed tick must report no transitions: %+v", tr)
	}
	if after := c.State(); after != before {
		t.Fatalf("failed tick changed state\nbefore %+v\nafter  %+v", before, after)
	}

	broken = false
	if tr := tickOnce(t, c, at(18000)); len(tr) != 1 || tr[0].To != domain.PhaseAutoStarting {
		t.Fatalf("expected the next tick to recover, got %+v", tr)
	}
}

type mutableSteps struct {
	total *int
}

func (m mutableSteps) ExerciseCount() int { return 1 }
func (m mutableSteps) TotalSteps(int) int  { return *m.total }
func (m mutableSteps) ImageCount(int) int  { return 1 }

func TestStepCountFollowsCatalogChanges(t *testing.T) {
	t.Parallel()
	total := 5
	c := domain.NewController(mutableSteps{total: &total}, domain.DefaultTimings(), 0, 0)
	c.Start(at(0))
	for _, ms := range []int{3000, 5000, 15000} {
		tickOnce(t, c, at(ms))
	}

	total = 1
	if got := c.State().TotalSteps; got != 5 {
		t.Fatalf("step count should be cached until synced, got %d", got)
	}
	c.SyncSteps()
	if got := c.State().TotalSteps; got != 1 {
		t.Fatalf("expected synced step count 1, got %d", got)
	}
	tr := tickOnce(t, c, at(18000))
	if len(tr) != 1 || tr[0].To != domain.PhaseComplete {
		t.Fatalf("expected the shortened routine to complete, got %+v", tr)
	}
}
