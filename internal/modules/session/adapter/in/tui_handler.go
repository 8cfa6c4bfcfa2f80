package in

import (
	"context"

	"bodysense/internal/modules/session/dto"
	sessionin "bodysense/internal/modules/session/port/in"
)

type TUIHandler struct {
	usecase sessionin.Usecase
}

func NewTUIHandler(usecase sessionin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

// Primary is the single button of the routine: start, pause or resume, or
// skip the countdown, depending on the phase.
func (h TUIHandler) Primary(ctx context.Context) dto.Result {
	switch h.usecase.Snapshot(ctx).Phase {
	case dto.PhaseIdle, dto.PhaseComplete:
		return h.usecase.Start(ctx)
	case dto.PhaseMassaging:
		return h.usecase.TogglePause(ctx)
	case dto.PhaseAutoStarting:
		return h.usecase.SkipAutoStart(ctx)
	}
	return dto.Result{Snapshot: h.usecase.Snapshot(ctx)}
}

func (h TUIHandler) TogglePause(ctx context.Context) dto.Result {
	return h.usecase.TogglePause(ctx)
}

func (h TUIHandler) SkipAutoStart(ctx context.Context) dto.Result {
	return h.usecase.SkipAutoStart(ctx)
}

func (h TUIHandler) Reset(ctx context.Context) dto.Result {
	return h.usecase.Reset(ctx)
}

func (h TUIHandler) ChangeExercise(ctx context.Context, index int) dto.Result {
	return h.usecase.ChangeExercise(ctx, dto.ChangeExerciseInput{Index: index})
}

func (h TUIHandler) ChangeImageSide(ctx context.Context, side int) dto.Result {
	return h.usecase.ChangeImageSide(ctx, dto.ChangeImageSideInput{Side: side})
}

// NextExercise cycles to the following exercise.
func (h TUIHandler) NextExercise(ctx context.Context) dto.Result {
	snap := h.usecase.Snapshot(ctx)
	if snap.ExerciseCount == 0 {
		return dto.Result{Snapshot: snap}
	}
	return h.ChangeExercise(ctx, (snap.ExerciseIndex+1)%snap.ExerciseCount)
}

// NextImageSide cycles the reference image of the current exercise.
func (h TUIHandler) NextImageSide(ctx context.Context) dto.Result {
	snap := h.usecase.Snapshot(ctx)
	if snap.ImageCount <= 1 {
		return dto.Result{Snapshot: snap}
	}
	return h.ChangeImageSide(ctx, (snap.ImageSide+1)%snap.ImageCount)
}

func (h TUIHandler) Tick(ctx context.Context) dto.TickOutput {
	return h.usecase.Tick(ctx)
}

func (h TUIHandler) Snapshot(ctx context.Context) dto.Snapshot {
	return h.usecase.Snapshot(ctx)
}

// Refresh rereads markers after they were edited elsewhere.
func (h TUIHandler) Refresh(ctx context.Context) dto.Snapshot {
	return h.usecase.Refresh(ctx)
}
