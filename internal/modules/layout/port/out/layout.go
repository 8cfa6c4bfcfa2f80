package out

import (
	"context"

	catalogdomain "bodysense/internal/modules/catalog/domain"
)

// KVStore persists small string values by key.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// CatalogReader exposes the exercise catalog currently in effect.
type CatalogReader interface {
	Current() catalogdomain.Catalog
}
