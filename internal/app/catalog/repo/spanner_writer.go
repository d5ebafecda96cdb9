package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
	"github.com/light-bringer/procat-browse/internal/models/m_brand"
	"github.com/light-bringer/procat-browse/internal/models/m_category"
	"github.com/light-bringer/procat-browse/internal/models/m_product"
	"github.com/light-bringer/procat-browse/internal/pkg/committer"
)

// SpannerWriter loads catalogs into Spanner through a commit plan.
type SpannerWriter struct {
	comm       *committer.Committer
	brands     *m_brand.Model
	categories *m_category.Model
	products   *m_product.Model
}

// NewSpannerWriter creates a CatalogWriter for Spanner.
func NewSpannerWriter(comm *committer.Committer) *SpannerWriter {
	return &SpannerWriter{
		comm:       comm,
		brands:     m_brand.NewModel(),
		categories: m_category.NewModel(),
		products:   m_product.NewModel(),
	}
}

// WriteCatalog upserts brands and categories before the products that
// reference them.
func (w *SpannerWriter) WriteCatalog(ctx context.Context, catalog *contracts.Catalog) error {
	plan, err := w.Plan(catalog)
	if err != nil {
		return err
	}
	if err := w.comm.Apply(ctx, plan); err != nil {
		return storeError("failed to write catalog", err)
	}
	return nil
}

// Plan builds the mutations for catalog without applying them.
func (w *SpannerWriter) Plan(catalog *contracts.Catalog) (*committer.Plan, error) {
	plan := committer.NewPlan()
	for _, b := range catalog.Brands {
		plan.Add(w.brands.InsertMut(&m_brand.Data{ID: b.ID, Name: b.Name}))
	}
	for _, c := range catalog.Categories {
		plan.Add(w.categories.InsertMut(&m_category.Data{ID: c.ID, Name: c.Name}))
	}
	for _, p := range catalog.Products {
		data, err := productToData(p)
		if err != nil {
			return nil, err
		}
		plan.Add(w.products.InsertMut(data))
	}
	return plan, nil
}

func productToData(p *domain.Product) (*m_product.Data, error) {
	if p.Price == nil {
		return nil, fmt.Errorf("product %s has no price", p.ID)
	}
	data := &m_product.Data{
		ProductID:   p.ID,
		BrandID:     nullString(p.BrandID),
		CategoryID:  nullString(p.CategoryID),
		Name:        p.Name,
		Description: nullString(p.Description),
		CreatedAt:   p.CreatedAt,
	}
	data.Price.Set(p.Price.Rat())
	return data, nil
}

func nullString(s *string) spanner.NullString {
	if s == nil {
		return spanner.NullString{}
	}
	return spanner.NullString{StringVal: *s, Valid: true}
}
