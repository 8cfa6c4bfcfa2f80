package service

import (
	"context"
	"sync"

	"bodysense/internal/modules/catalog/domain"
	catalogout "bodysense/internal/modules/catalog/port/out"
)

// CatalogService caches the loaded catalog. Reload may run on the watcher
// goroutine while hosts read Current.
type CatalogService struct {
	source catalogout.CatalogSource

	mu      sync.RWMutex
	current domain.Catalog
}

// NewCatalogService loads the catalog once; a broken source is fatal at
// startup.
func NewCatalogService(ctx context.Context, source catalogout.CatalogSource) (*CatalogService, error) {
	catalog, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogService{source: source, current: catalog}, nil
}

func (s *CatalogService) Current() domain.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload swaps in the source's catalog. On error the previous catalog stays.
func (s *CatalogService) Reload(ctx context.Context) (domain.Catalog, error) {
	catalog, err := s.source.Load(ctx)
	if err != nil {
		return s.Current(), err
	}
	s.mu.Lock()
	s.current = catalog
	s.mu.Unlock()
	return catalog, nil
}
