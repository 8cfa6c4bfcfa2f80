package out

import (
	"context"

	historydto "bodysense/internal/modules/history/dto"
	historyin "bodysense/internal/modules/history/port/in"
	"bodysense/internal/modules/session/domain"
	sessionout "bodysense/internal/modules/session/port/out"
)

type HistoryAdapter struct {
	history historyin.Usecase
}

func NewHistoryAdapter(history historyin.Usecase) sessionout.RunRecorder {
	return &HistoryAdapter{history: history}
}

func (a *HistoryAdapter) Record(ctx context.Context, run domain.CompletedRun) error {
	_, err := a.history.Record(ctx, historydto.RecordRunInput{
		ExerciseIndex: run.ExerciseIndex,
		ExerciseTitle: run.ExerciseTitle,
		ImageSide:     run.ImageSide,
		Positions:     run.Positions,
		Pauses:        run.Pauses,
		StartedAt:     run.StartedAt,
		CompletedAt:   run.CompletedAt,
	})
	return err
}
