package contracts

import (
	"context"

	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
)

// Catalog is a complete set of reference rows and products to load into a store.
type Catalog struct {
	Brands     []domain.Reference
	Categories []domain.Reference
	Products   []*domain.Product
}

// CatalogWriter loads catalog data into a store. It is only used by
// operator tooling; the browsing path is read-only.
type CatalogWriter interface {
	WriteCatalog(ctx context.Context, catalog *Catalog) error
}
