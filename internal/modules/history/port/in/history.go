package in

import (
	"context"

	"bodysense/internal/modules/history/dto"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordRunInput) (dto.RunOutput, error)
	List(ctx context.Context, input dto.ListInput) ([]dto.RunOutput, error)
}
