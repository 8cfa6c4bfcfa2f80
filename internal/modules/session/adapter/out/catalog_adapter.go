package out

import (
	catalogin "bodysense/internal/modules/catalog/port/in"
	sessionout "bodysense/internal/modules/session/port/out"
)

// CatalogAdapter reads the catalog on every call so reloads take effect
// without rebuilding the session.
type CatalogAdapter struct {
	catalog catalogin.Usecase
}

func NewCatalogAdapter(catalog catalogin.Usecase) sessionout.CatalogPort {
	return &CatalogAdapter{catalog: catalog}
}

func (a *CatalogAdapter) ExerciseCount() int { return a.catalog.Current().ExerciseCount() }

func (a *CatalogAdapter) TotalSteps(i int) int { return a.catalog.Current().TotalSteps(i) }

func (a *CatalogAdapter) ImageCount(i int) int { return a.catalog.Current().ImageCount(i) }

func (a *CatalogAdapter) Title(i int) string { return a.catalog.Current().Exercise(i).Title }
