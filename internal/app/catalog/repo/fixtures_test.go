package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
)

var fixtureEpoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

// catalogFixture returns 15 products spread over 3 categories and 3 brands.
// Product i has category cat-(i%3+1) and brand brand-(i/5+1); product 7 is
// named "Unique Laptop", all others "Product NN".
func catalogFixture(t *testing.T) *contracts.Catalog {
	t.Helper()

	catalog := &contracts.Catalog{
		Brands: []domain.Reference{
			{ID: "brand-1", Name: "Zenith"},
			{ID: "brand-2", Name: "Acme"},
			{ID: "brand-3", Name: "Midway"},
		},
		Categories: []domain.Reference{
			{ID: "cat-1", Name: "Phones"},
			{ID: "cat-2", Name: "Audio"},
			{ID: "cat-3", Name: "Laptops"},
		},
	}

	for i := 0; i < 15; i++ {
		price, err := domain.NewMoney(int64(1999+i*100), 100)
		require.NoError(t, err)

		name := fmt.Sprintf("Product %02d", i+1)
		if i == 7 {
			name = "Unique Laptop"
		}
		catalog.Products = append(catalog.Products, &domain.Product{
			ID:          fmt.Sprintf("prod-%02d", i+1),
			Name:        name,
			Description: strPtr("Fixture product"),
			Price:       price,
			CategoryID:  strPtr(fmt.Sprintf("cat-%d", i%3+1)),
			BrandID:     strPtr(fmt.Sprintf("brand-%d", i/5+1)),
			CreatedAt:   fixtureEpoch.Add(time.Duration(i) * time.Minute),
		})
	}
	return catalog
}

// storeFactory creates an empty store pair for one test.
type storeFactory func(t *testing.T) (contracts.ReadModel, contracts.CatalogWriter)

func seeded(t *testing.T, newStore storeFactory, catalog *contracts.Catalog) contracts.ReadModel {
	t.Helper()
	rm, w := newStore(t)
	require.NoError(t, w.WriteCatalog(context.Background(), catalog))
	return rm
}

func productNames(page *contracts.ResultPage) []string {
	names := make([]string, 0, len(page.Items))
	for _, p := range page.Items {
		names = append(names, p.Name)
	}
	return names
}
