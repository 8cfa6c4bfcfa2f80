package out

import (
	"context"

	layoutdto "bodysense/internal/modules/layout/dto"
	layoutin "bodysense/internal/modules/layout/port/in"
	"bodysense/internal/modules/session/domain"
	sessionout "bodysense/internal/modules/session/port/out"
)

type LayoutAdapter struct {
	layout layoutin.Usecase
}

func NewLayoutAdapter(layout layoutin.Usecase) sessionout.LayoutPort {
	return &LayoutAdapter{layout: layout}
}

func (a *LayoutAdapter) Selection(ctx context.Context) (domain.Selection, error) {
	sel, err := a.layout.Selection(ctx)
	if err != nil {
		return domain.Selection{}, err
	}
	return domain.Selection{ExerciseIndex: sel.ExerciseIndex, ImageSide: sel.ImageSide}, nil
}

func (a *LayoutAdapter) SelectExercise(ctx context.Context, index int) (domain.Selection, error) {
	sel, err := a.layout.SelectExercise(ctx, index)
	if err != nil {
		return domain.Selection{}, err
	}
	return domain.Selection{ExerciseIndex: sel.ExerciseIndex, ImageSide: sel.ImageSide}, nil
}

func (a *LayoutAdapter) SelectImageSide(ctx context.Context, exercise, side int) error {
	_, err := a.layout.SelectImageSide(ctx, layoutdto.SelectImageSideInput{ExerciseIndex: exercise, ImageSide: side})
	return err
}

func (a *LayoutAdapter) Markers(ctx context.Context, exercise, side int) ([]domain.Marker, error) {
	out, err := a.layout.Markers(ctx, layoutdto.MarkersInput{ExerciseIndex: exercise, ImageSide: side})
	if err != nil {
		return nil, err
	}
	markers := make([]domain.Marker, 0, len(out.Markers))
	for _, m := range out.Markers {
		markers = append(markers, domain.Marker{Position: m.Position, Top: m.Top, Right: m.Right})
	}
	return markers, nil
}
