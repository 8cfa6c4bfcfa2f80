package usecase

import (
	"context"

	"bodysense/internal/modules/history/domain"
	"bodysense/internal/modules/history/dto"
	historyin "bodysense/internal/modules/history/port/in"
	"bodysense/internal/modules/history/service"
)

type Interactor struct {
	svc *service.HistoryService
}

func NewInteractor(svc *service.HistoryService) historyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Record(ctx context.Context, input dto.RecordRunInput) (dto.RunOutput, error) {
	run, path, err := i.svc.Record(ctx, domain.Run{
		ExerciseIndex: input.ExerciseIndex,
		ExerciseTitle: input.ExerciseTitle,
		ImageSide:     input.ImageSide,
		Positions:     input.Positions,
		Pauses:        input.Pauses,
		StartedAt:     input.StartedAt,
		CompletedAt:   input.CompletedAt,
	})
	if err != nil {
		return dto.RunOutput{}, err
	}
	out := toRunOutput(run)
	out.JournalPath = path
	return out, nil
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) ([]dto.RunOutput, error) {
	runs, err := i.svc.List(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RunOutput, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunOutput(run))
	}
	return out, nil
}

func toRunOutput(run domain.Run) dto.RunOutput {
	return dto.RunOutput{
		ID:            run.ID,
		ExerciseIndex: run.ExerciseIndex,
		ExerciseTitle: run.ExerciseTitle,
		ImageSide:     run.ImageSide,
		Positions:     run.Positions,
		Pauses:        run.Pauses,
		StartedAt:     run.StartedAt,
		CompletedAt:   run.CompletedAt,
		Duration:      run.Duration(),
	}
}
