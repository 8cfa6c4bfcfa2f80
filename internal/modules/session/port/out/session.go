package out

import (
	"context"

	"bodysense/internal/modules/session/domain"
)

// CatalogPort reads the live exercise catalog.
type CatalogPort interface {
	domain.Steps
	Title(exerciseIndex int) string
}

// LayoutPort persists the user's selection and reads marker positions.
type LayoutPort interface {
	Selection(ctx context.Context) (domain.Selection, error)
	// SelectExercise stores the exercise and returns it with its last side.
	SelectExercise(ctx context.Context, index int) (domain.Selection, error)
	SelectImageSide(ctx context.Context, exercise, side int) error
	Markers(ctx context.Context, exercise, side int) ([]domain.Marker, error)
}

type RunRecorder interface {
	Record(ctx context.Context, run domain.CompletedRun) error
}
