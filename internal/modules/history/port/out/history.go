package out

import (
	"context"

	"bodysense/internal/modules/history/domain"
)

type RunStore interface {
	Save(ctx context.Context, run domain.Run) error
	List(ctx context.Context, limit int) ([]domain.Run, error)
}

// Journal writes a human-readable note per run and returns its path.
type Journal interface {
	Write(ctx context.Context, run domain.Run) (string, error)
}
