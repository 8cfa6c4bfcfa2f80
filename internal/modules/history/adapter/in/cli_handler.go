package in

import (
	"context"

	"bodysense/internal/modules/history/dto"
	historyin "bodysense/internal/modules/history/port/in"
)

type CLIHandler struct {
	usecase historyin.Usecase
}

func NewCLIHandler(usecase historyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, limit int) ([]dto.RunOutput, error) {
	return h.usecase.List(ctx, dto.ListInput{Limit: limit})
}
