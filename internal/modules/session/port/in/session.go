package in

import (
	"context"

	"bodysense/internal/modules/session/dto"
)

// Usecase drives one session. Requests that do not apply in the current
// phase are ignored and report Applied=false. Implementations are safe for
// concurrent use.
type Usecase interface {
	Start(ctx context.Context) dto.Result
	TogglePause(ctx context.Context) dto.Result
	SkipAutoStart(ctx context.Context) dto.Result
	ChangeExercise(ctx context.Context, input dto.ChangeExerciseInput) dto.Result
	ChangeImageSide(ctx context.Context, input dto.ChangeImageSideInput) dto.Result
	Reset(ctx context.Context) dto.Result
	Tick(ctx context.Context) dto.TickOutput
	Snapshot(ctx context.Context) dto.Snapshot
	// Refresh rereads markers, e.g. after the catalog changed on disk.
	Refresh(ctx context.Context) dto.Snapshot
}
