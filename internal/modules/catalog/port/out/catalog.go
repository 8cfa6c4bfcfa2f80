package out

import (
	"context"

	"bodysense/internal/modules/catalog/domain"
)

type CatalogSource interface {
	Load(ctx context.Context) (domain.Catalog, error)
}

// ChangeNotifier reports catalog source changes until ctx is done.
type ChangeNotifier interface {
	Watch(ctx context.Context, onChange func()) error
}
