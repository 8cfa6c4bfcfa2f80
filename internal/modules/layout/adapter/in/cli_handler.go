package in

import (
	"context"

	"bodysense/internal/modules/layout/dto"
	layoutin "bodysense/internal/modules/layout/port/in"
)

type CLIHandler struct {
	usecase layoutin.Usecase
}

func NewCLIHandler(usecase layoutin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Selection(ctx context.Context) (dto.SelectionOutput, error) {
	return h.usecase.Selection(ctx)
}

func (h CLIHandler) SelectExercise(ctx context.Context, index int) (dto.SelectionOutput, error) {
	return h.usecase.SelectExercise(ctx, index)
}

func (h CLIHandler) SelectImageSide(ctx context.Context, side int) (dto.SelectionOutput, error) {
	sel, err := h.usecase.Selection(ctx)
	if err != nil {
		return dto.SelectionOutput{}, err
	}
	return h.usecase.SelectImageSide(ctx, dto.SelectImageSideInput{ExerciseIndex: sel.ExerciseIndex, ImageSide: side})
}

func (h CLIHandler) Markers(ctx context.Context, exercise, side int) (dto.MarkersOutput, error) {
	return h.usecase.Markers(ctx, dto.MarkersInput{ExerciseIndex: exercise, ImageSide: side})
}

func (h CLIHandler) SetMarker(ctx context.Context, exercise, side int, marker dto.Marker) (dto.MarkersOutput, error) {
	return h.usecase.SetMarker(ctx, dto.SetMarkerInput{ExerciseIndex: exercise, ImageSide: side, Marker: marker})
}

func (h CLIHandler) ResetMarkers(ctx context.Context, exercise, side int) (dto.MarkersOutput, error) {
	return h.usecase.ResetMarkers(ctx, dto.MarkersInput{ExerciseIndex: exercise, ImageSide: side})
}

func (h CLIHandler) ExportMarkers(ctx context.Context, exercise, side int) (string, error) {
	return h.usecase.ExportMarkers(ctx, dto.MarkersInput{ExerciseIndex: exercise, ImageSide: side})
}
