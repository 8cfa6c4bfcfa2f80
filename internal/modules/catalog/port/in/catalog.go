package in

import (
	"context"

	"bodysense/internal/modules/catalog/domain"
	"bodysense/internal/modules/catalog/dto"
)

type Usecase interface {
	List(ctx context.Context) (dto.CatalogOutput, error)
	Get(ctx context.Context, index int) (dto.ExerciseOutput, error)
	// Current returns the loaded catalog for read-only consumers.
	Current() domain.Catalog
	Reload(ctx context.Context) (dto.CatalogOutput, error)
}
