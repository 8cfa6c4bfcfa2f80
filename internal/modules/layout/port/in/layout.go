package in

import (
	"context"

	"bodysense/internal/modules/layout/dto"
)

type Usecase interface {
	Selection(ctx context.Context) (dto.SelectionOutput, error)
	SelectExercise(ctx context.Context, index int) (dto.SelectionOutput, error)
	SelectImageSide(ctx context.Context, input dto.SelectImageSideInput) (dto.SelectionOutput, error)
	Markers(ctx context.Context, input dto.MarkersInput) (dto.MarkersOutput, error)
	SaveMarkers(ctx context.Context, input dto.SaveMarkersInput) (dto.MarkersOutput, error)
	SetMarker(ctx context.Context, input dto.SetMarkerInput) (dto.MarkersOutput, error)
	ResetMarkers(ctx context.Context, input dto.MarkersInput) (dto.MarkersOutput, error)
	ExportMarkers(ctx context.Context, input dto.MarkersInput) (string, error)
	EnsureDefaults(ctx context.Context) error
}
