package out

import (
	catalogdomain "bodysense/internal/modules/catalog/domain"
	catalogin "bodysense/internal/modules/catalog/port/in"
	layoutout "bodysense/internal/modules/layout/port/out"
)

type CatalogAdapter struct {
	catalog catalogin.Usecase
}

func NewCatalogAdapter(catalog catalogin.Usecase) layoutout.CatalogReader {
	return &CatalogAdapter{catalog: catalog}
}

func (a *CatalogAdapter) Current() catalogdomain.Catalog {
	return a.catalog.Current()
}
