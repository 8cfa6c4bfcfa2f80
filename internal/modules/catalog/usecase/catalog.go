package usecase

import (
	"context"
	"fmt"

	"bodysense/internal/modules/catalog/domain"
	"bodysense/internal/modules/catalog/dto"
	catalogin "bodysense/internal/modules/catalog/port/in"
	"bodysense/internal/modules/catalog/service"
	apperrors "bodysense/internal/platform/errors"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) catalogin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(_ context.Context) (dto.CatalogOutput, error) {
	return toCatalogOutput(i.svc.Current()), nil
}

func (i *Interactor) Get(_ context.Context, index int) (dto.ExerciseOutput, error) {
	catalog := i.svc.Current()
	if !catalog.Has(index) {
		return dto.ExerciseOutput{}, fmt.Errorf("%w: %d", apperrors.ErrUnknownExercise, index)
	}
	return toExerciseOutput(index, catalog.Exercise(index)), nil
}

func (i *Interactor) Current() domain.Catalog {
	return i.svc.Current()
}

func (i *Interactor) Reload(ctx context.Context) (dto.CatalogOutput, error) {
	catalog, err := i.svc.Reload(ctx)
	if err != nil {
		return dto.CatalogOutput{}, err
	}
	return toCatalogOutput(catalog), nil
}

func toCatalogOutput(c domain.Catalog) dto.CatalogOutput {
	out := dto.CatalogOutput{Version: c.Version, Exercises: make([]dto.ExerciseOutput, 0, len(c.Exercises))}
	for idx, e := range c.Exercises {
		out.Exercises = append(out.Exercises, toExerciseOutput(idx, e))
	}
	return out
}

func toExerciseOutput(index int, e domain.Exercise) dto.ExerciseOutput {
	sides := make([]string, 0, len(e.Images))
	for _, img := range e.Images {
		sides = append(sides, img.Side)
	}
	defaults := make(map[int]dto.CoordinateOutput, len(e.Defaults))
	for n, c := range e.Defaults {
		defaults[n] = dto.CoordinateOutput{Top: c.Top, Right: c.Right}
	}
	return dto.ExerciseOutput{
		Index:      index,
		Name:       e.Name,
		Title:      e.Title,
		TotalSteps: e.TotalSteps,
		ImageSides: sides,
		Defaults:   defaults,
	}
}
