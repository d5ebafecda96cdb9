package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
)

func TestSpannerWriter_Plan(t *testing.T) {
	w := NewSpannerWriter(nil)

	plan, err := w.Plan(catalogFixture(t))
	require.NoError(t, err)

	assert.Equal(t, 3+3+15, plan.Count())
}

func TestSpannerWriter_PlanRejectsMissingPrice(t *testing.T) {
	w := NewSpannerWriter(nil)
	catalog := &contracts.Catalog{
		Products: []*domain.Product{{ID: "prod-1", Name: "Free Lunch"}},
	}

	_, err := w.Plan(catalog)
	assert.ErrorContains(t, err, "prod-1")
}

func TestProductToData(t *testing.T) {
	price, err := domain.NewMoney(259999, 100)
	require.NoError(t, err)

	data, err := productToData(&domain.Product{
		ID:         "prod-1",
		Name:       "Unique Laptop",
		Price:      price,
		CategoryID: strPtr("cat-1"),
		CreatedAt:  fixtureEpoch,
	})
	require.NoError(t, err)

	assert.Equal(t, "prod-1", data.ProductID)
	assert.True(t, data.CategoryID.Valid)
	assert.Equal(t, "cat-1", data.CategoryID.StringVal)
	assert.False(t, data.BrandID.Valid)
	assert.False(t, data.Description.Valid)
	assert.Equal(t, "2599.99", data.Price.FloatString(2))
}
