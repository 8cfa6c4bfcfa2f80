package in

import (
	"context"

	"bodysense/internal/modules/catalog/dto"
	catalogin "bodysense/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) (dto.CatalogOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, index int) (dto.ExerciseOutput, error) {
	return h.usecase.Get(ctx, index)
}
