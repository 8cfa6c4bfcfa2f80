package service

import (
	"context"
	"sync"
	"time"

	"bodysense/internal/modules/session/domain"
	sessionout "bodysense/internal/modules/session/port/out"
	"bodysense/internal/platform/clock"
	"bodysense/internal/platform/logging"
)

// View is a snapshot plus the catalog and layout context hosts draw with.
type View struct {
	Snapshot      domain.Snapshot
	ExerciseTitle string
	ExerciseCount int
	ImageCount    int
	Markers       []domain.Marker
}

// SessionService owns the controller and serializes every call into it.
type SessionService struct {
	mu      sync.Mutex
	clock   clock.Clock
	catalog sessionout.CatalogPort
	layout  sessionout.LayoutPort
	runs    sessionout.RunRecorder
	logger  *logging.Logger

	ctrl         *domain.Controller
	markers      []domain.Marker
	runStartedAt time.Time
	pauses       int
}

// NewSessionService restores the last selection and starts Idle. runs may be
// nil.
func NewSessionService(
	ctx context.Context,
	clk clock.Clock,
	timings domain.Timings,
	catalog sessionout.CatalogPort,
	layout sessionout.LayoutPort,
	runs sessionout.RunRecorder,
	logger *logging.Logger,
) (*SessionService, error) {
	if err := timings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}
	s := &SessionService{
		clock:   clk,
		catalog: catalog,
		layout:  layout,
		runs:    runs,
		logger:  logger.WithComponent("session"),
	}
	sel, err := layout.Selection(ctx)
	if err != nil {
		s.logger.Warn("selection unavailable, using defaults", "error", err.Error())
		sel = domain.Selection{}
	}
	s.ctrl = domain.NewController(catalog, timings, sel.ExerciseIndex, sel.ImageSide)
	s.loadMarkers(ctx)
	return s, nil
}

func (s *SessionService) Start(ctx context.Context) (bool, View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	from := s.ctrl.State().Phase
	applied := s.ctrl.Start(now)
	if applied {
		s.runStartedAt = now
		s.pauses = 0
		s.logger.Info("routine started", "from", string(from), "exercise", s.ctrl.State().ExerciseIndex)
	}
	return applied, s.view(now)
}

func (s *SessionService) TogglePause(ctx context.Context) (bool, View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	applied := s.ctrl.TogglePause(now)
	if applied {
		st := s.ctrl.State()
		if st.Phase == domain.PhaseMassaging && st.Paused {
			s.pauses++
			s.logger.Info("massage paused", "remaining_ms", st.AccumulatedRemaining.Milliseconds())
		} else {
			s.logger.Info("massage resuming", "position", st.ActivePosition)
		}
	}
	return applied, s.view(now)
}

func (s *SessionService) SkipAutoStart(ctx context.Context) (bool, View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	applied := s.ctrl.SkipAutoStart(now)
	if applied {
		s.logger.Debug("auto start skipped", "position", s.ctrl.State().ActivePosition)
	}
	return applied, s.view(now)
}

// ChangeExercise abandons the current run and selects index (0 when
// unknown) on its first image. The first image is persisted as the
// exercise's side too.
func (s *SessionService) ChangeExercise(ctx context.Context, index int) (bool, View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	effective := s.ctrl.ChangeExercise(index)
	if _, err := s.layout.SelectExercise(ctx, effective); err != nil {
		s.logger.Warn("persist exercise failed", "exercise", effective, "error", err.Error())
	}
	if err := s.layout.SelectImageSide(ctx, effective, 0); err != nil {
		s.logger.Warn("persist image side failed", "exercise", effective, "side", 0, "error", err.Error())
	}
	s.runStartedAt = time.Time{}
	s.loadMarkers(ctx)
	s.logger.Info("exercise changed", "requested", index, "exercise", effective)
	return true, s.view(s.clock.Now())
}

func (s *SessionService) ChangeImageSide(ctx context.Context, side int) (bool, View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := s.ctrl.ChangeImageSide(side)
	if applied {
		st := s.ctrl.State()
		if err := s.layout.SelectImageSide(ctx, st.ExerciseIndex, st.ImageSide); err != nil {
			s.logger.Warn("persist image side failed", "exercise", st.ExerciseIndex, "side", side, "error", err.Error())
		}
		s.loadMarkers(ctx)
	}
	return applied, s.view(s.clock.Now())
}

// Reset abandons the current run and returns to Idle.
func (s *SessionService) Reset(ctx context.Context) (bool, View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := s.ctrl.State().Phase != domain.PhaseIdle
	s.ctrl.Reset()
	s.runStartedAt = time.Time{}
	return applied, s.view(s.clock.Now())
}

// Tick advances the session to the clock's now and records the run when it
// completes.
func (s *SessionService) Tick(ctx context.Context) ([]domain.Transition, View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	transitions, err := s.ctrl.Tick(now)
	if err != nil {
		s.logger.Error("tick skipped", "error", err.Error())
		return nil, s.view(now)
	}
	for _, tr := range transitions {
		s.logger.Debug("phase changed", "from", string(tr.From), "to", string(tr.To), "position", tr.Position)
		if tr.To == domain.PhaseComplete {
			s.recordRun(ctx, tr.At)
		}
	}
	return transitions, s.view(now)
}

func (s *SessionService) View(ctx context.Context) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.clock.Now())
}

// Refresh rereads markers and the step count and re-clamps the selection
// against the catalog.
func (s *SessionService) Refresh(ctx context.Context) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.ctrl.State()
	if st.ExerciseIndex >= s.catalog.ExerciseCount() || st.ImageSide >= s.catalog.ImageCount(st.ExerciseIndex) {
		s.ctrl.ChangeExercise(st.ExerciseIndex)
	}
	s.ctrl.SyncSteps()
	s.loadMarkers(ctx)
	return s.view(s.clock.Now())
}

func (s *SessionService) recordRun(ctx context.Context, completedAt time.Time) {
	st := s.ctrl.State()
	startedAt := s.runStartedAt
	if startedAt.IsZero() {
		startedAt = completedAt
	}
	run := domain.CompletedRun{
		ExerciseIndex: st.ExerciseIndex,
		ExerciseTitle: s.catalog.Title(st.ExerciseIndex),
		ImageSide:     st.ImageSide,
		Positions:     st.TotalSteps,
		Pauses:        s.pauses,
		StartedAt:     startedAt,
		CompletedAt:   completedAt,
	}
	s.logger.Info("routine complete", "exercise", run.ExerciseIndex, "positions", run.Positions, "pauses", run.Pauses)
	if s.runs == nil {
		return
	}
	if err := s.runs.Record(ctx, run); err != nil {
		s.logger.Warn("record run failed", "error", err.Error())
	}
}

func (s *SessionService) loadMarkers(ctx context.Context) {
	st := s.ctrl.State()
	markers, err := s.layout.Markers(ctx, st.ExerciseIndex, st.ImageSide)
	if err != nil {
		s.logger.Warn("markers unavailable", "exercise", st.ExerciseIndex, "side", st.ImageSide, "error", err.Error())
		markers = nil
	}
	s.markers = markers
}

func (s *SessionService) view(now time.Time) View {
	snap := s.ctrl.Snapshot(now)
	return View{
		Snapshot:      snap,
		ExerciseTitle: s.catalog.Title(snap.ExerciseIndex),
		ExerciseCount: s.catalog.ExerciseCount(),
		ImageCount:    s.catalog.ImageCount(snap.ExerciseIndex),
		Markers:       append([]domain.Marker(nil), s.markers...),
	}
}
