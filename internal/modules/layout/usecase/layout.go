package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	catalogdomain "bodysense/internal/modules/catalog/domain"
	"bodysense/internal/modules/layout/domain"
	"bodysense/internal/modules/layout/dto"
	layoutin "bodysense/internal/modules/layout/port/in"
	"bodysense/internal/modules/layout/service"
)

type Interactor struct {
	svc *service.LayoutService
}

func NewInteractor(svc *service.LayoutService) layoutin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Selection(ctx context.Context) (dto.SelectionOutput, error) {
	sel, err := i.svc.Selection(ctx)
	if err != nil {
		return dto.SelectionOutput{}, err
	}
	return toSelectionOutput(sel), nil
}

func (i *Interactor) SelectExercise(ctx context.Context, index int) (dto.SelectionOutput, error) {
	sel, err := i.svc.SelectExercise(ctx, index)
	if err != nil {
		return dto.SelectionOutput{}, err
	}
	return toSelectionOutput(sel), nil
}

func (i *Interactor) SelectImageSide(ctx context.Context, input dto.SelectImageSideInput) (dto.SelectionOutput, error) {
	sel, err := i.svc.SelectImageSide(ctx, input.ExerciseIndex, input.ImageSide)
	if err != nil {
		return dto.SelectionOutput{}, err
	}
	return toSelectionOutput(sel), nil
}

func (i *Interactor) Markers(ctx context.Context, input dto.MarkersInput) (dto.MarkersOutput, error) {
	positions, err := i.svc.Markers(ctx, input.ExerciseIndex, input.ImageSide)
	if err != nil {
		return dto.MarkersOutput{}, err
	}
	return i.toMarkersOutput(input.ExerciseIndex, input.ImageSide, positions), nil
}

func (i *Interactor) SaveMarkers(ctx context.Context, input dto.SaveMarkersInput) (dto.MarkersOutput, error) {
	positions := make(catalogdomain.Positions, len(input.Markers))
	for _, m := range input.Markers {
		positions[m.Position] = catalogdomain.Coordinate{Top: m.Top, Right: m.Right}
	}
	if err := i.svc.SaveMarkers(ctx, input.ExerciseIndex, input.ImageSide, positions); err != nil {
		return dto.MarkersOutput{}, err
	}
	return i.toMarkersOutput(input.ExerciseIndex, input.ImageSide, positions), nil
}

// SetMarker moves one marker and keeps the others.
func (i *Interactor) SetMarker(ctx context.Context, input dto.SetMarkerInput) (dto.MarkersOutput, error) {
	positions, err := i.svc.Markers(ctx, input.ExerciseIndex, input.ImageSide)
	if err != nil {
		return dto.MarkersOutput{}, err
	}
	positions = positions.Clone()
	positions[input.Marker.Position] = catalogdomain.Coordinate{Top: input.Marker.Top, Right: input.Marker.Right}
	if err := i.svc.SaveMarkers(ctx, input.ExerciseIndex, input.ImageSide, positions); err != nil {
		return dto.MarkersOutput{}, err
	}
	return i.toMarkersOutput(input.ExerciseIndex, input.ImageSide, positions), nil
}

func (i *Interactor) ResetMarkers(ctx context.Context, input dto.MarkersInput) (dto.MarkersOutput, error) {
	positions, err := i.svc.ResetMarkers(ctx, input.ExerciseIndex, input.ImageSide)
	if err != nil {
		return dto.MarkersOutput{}, err
	}
	return i.toMarkersOutput(input.ExerciseIndex, input.ImageSide, positions), nil
}

// ExportMarkers renders the marker set as indented JSON keyed by position,
// ready to paste into a catalog file.
func (i *Interactor) ExportMarkers(ctx context.Context, input dto.MarkersInput) (string, error) {
	positions, err := i.svc.Markers(ctx, input.ExerciseIndex, input.ImageSide)
	if err != nil {
		return "", err
	}
	raw, err := json.MarshalIndent(positions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export markers: %w", err)
	}
	return string(raw), nil
}

func (i *Interactor) EnsureDefaults(ctx context.Context) error {
	return i.svc.EnsureDefaults(ctx)
}

func (i *Interactor) toMarkersOutput(exercise, side int, positions catalogdomain.Positions) dto.MarkersOutput {
	out := dto.MarkersOutput{ExerciseIndex: exercise, ImageSide: side, Version: i.svc.Version()}
	for _, n := range domain.Numbers(positions) {
		c := positions[n]
		out.Markers = append(out.Markers, dto.Marker{Position: n, Top: c.Top, Right: c.Right})
	}
	return out
}

func toSelectionOutput(sel domain.Selection) dto.SelectionOutput {
	return dto.SelectionOutput{ExerciseIndex: sel.ExerciseIndex, ImageSide: sel.ImageSide}
}
