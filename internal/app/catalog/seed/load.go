package seed

import (
	"context"
	"fmt"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
)

// Load generates a catalog with opts and writes it through w.
func Load(ctx context.Context, w contracts.CatalogWriter, opts Options) (*contracts.Catalog, error) {
	catalog, err := Generate(opts)
	if err != nil {
		return nil, err
	}
	if err := w.WriteCatalog(ctx, catalog); err != nil {
		return nil, fmt.Errorf("failed to write catalog: %w", err)
	}
	return catalog, nil
}
