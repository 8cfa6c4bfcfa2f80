package out

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bodysense/internal/modules/catalog/domain"
	catalogout "bodysense/internal/modules/catalog/port/out"
)

//go:embed catalog.yaml
var shippedCatalog []byte

// YAMLCatalogSource reads the catalog from path, or from the embedded
// default when path is empty.
type YAMLCatalogSource struct {
	path string
}

func NewYAMLCatalogSource(path string) catalogout.CatalogSource {
	return &YAMLCatalogSource{path: path}
}

func (s *YAMLCatalogSource) Load(_ context.Context) (domain.Catalog, error) {
	raw := shippedCatalog
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("read catalog: %w", err)
		}
		raw = b
	}
	return DecodeCatalog(raw)
}

// DecodeCatalog strictly decodes and validates a YAML catalog document.
func DecodeCatalog(raw []byte) (domain.Catalog, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	catalog := domain.Catalog{}
	if err := decoder.Decode(&catalog); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return domain.Catalog{}, fmt.Errorf("validate catalog: %w", err)
	}
	return catalog, nil
}

// ShippedCatalog returns the embedded default catalog.
func ShippedCatalog() (domain.Catalog, error) {
	return DecodeCatalog(shippedCatalog)
}
