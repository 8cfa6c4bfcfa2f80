package usecase

import (
	"context"

	"bodysense/internal/modules/session/domain"
	"bodysense/internal/modules/session/dto"
	sessionin "bodysense/internal/modules/session/port/in"
	"bodysense/internal/modules/session/service"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Start(ctx context.Context) dto.Result {
	return toResult(i.svc.Start(ctx))
}

func (i *Interactor) TogglePause(ctx context.Context) dto.Result {
	return toResult(i.svc.TogglePause(ctx))
}

func (i *Interactor) SkipAutoStart(ctx context.Context) dto.Result {
	return toResult(i.svc.SkipAutoStart(ctx))
}

func (i *Interactor) ChangeExercise(ctx context.Context, input dto.ChangeExerciseInput) dto.Result {
	return toResult(i.svc.ChangeExercise(ctx, input.Index))
}

func (i *Interactor) ChangeImageSide(ctx context.Context, input dto.ChangeImageSideInput) dto.Result {
	return toResult(i.svc.ChangeImageSide(ctx, input.Side))
}

func (i *Interactor) Reset(ctx context.Context) dto.Result {
	return toResult(i.svc.Reset(ctx))
}

func (i *Interactor) Tick(ctx context.Context) dto.TickOutput {
	transitions, view := i.svc.Tick(ctx)
	out := dto.TickOutput{Snapshot: toSnapshot(view)}
	for _, tr := range transitions {
		out.Transitions = append(out.Transitions, dto.Transition{
			From:     string(tr.From),
			To:       string(tr.To),
			At:       tr.At,
			Position: tr.Position,
		})
	}
	return out
}

func (i *Interactor) Snapshot(ctx context.Context) dto.Snapshot {
	return toSnapshot(i.svc.View(ctx))
}

func (i *Interactor) Refresh(ctx context.Context) dto.Snapshot {
	return toSnapshot(i.svc.Refresh(ctx))
}

func toResult(applied bool, view service.View) dto.Result {
	return dto.Result{Applied: applied, Snapshot: toSnapshot(view)}
}

func toSnapshot(view service.View) dto.Snapshot {
	s := view.Snapshot
	out := dto.Snapshot{
		Phase:                   string(s.Phase),
		PhaseLabel:              s.PhaseLabel,
		Paused:                  s.Paused,
		RemainingSeconds:        s.RemainingSeconds,
		RemainingSecondsPrecise: s.RemainingSecondsPrecise,
		MassageProgress:         s.MassageProgress,
		SealProgress:            s.SealProgress,
		ReleaseProgress:         s.ReleaseProgress,
		ResumeSealProgress:      s.ResumeSealProgress,
		AutoStartCountdown:      s.AutoStartCountdown,
		ActivePosition:          s.ActivePosition,
		TotalSteps:              s.TotalSteps,
		ExerciseIndex:           s.ExerciseIndex,
		ExerciseTitle:           view.ExerciseTitle,
		ExerciseCount:           view.ExerciseCount,
		ImageSide:               s.ImageSide,
		ImageCount:              view.ImageCount,
		ReleasingShortly:        s.ReleasingShortly,
		Instruction:             s.Instruction,
		ButtonLabel:             s.ButtonLabel,
		Markers:                 make([]dto.Marker, 0, len(view.Markers)),
	}
	for _, m := range view.Markers {
		out.Markers = append(out.Markers, toMarker(m))
	}
	return out
}

func toMarker(m domain.Marker) dto.Marker {
	return dto.Marker{Position: m.Position, Top: m.Top, Right: m.Right}
}
