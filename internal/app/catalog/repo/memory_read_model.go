package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
	"github.com/light-bringer/procat-browse/internal/app/catalog/filter"
)

// MemoryStore keeps a catalog in process. It implements both ReadModel and
// CatalogWriter and is safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	brands     map[string]domain.Reference
	categories map[string]domain.Reference
	products   map[string]*domain.Product
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		brands:     make(map[string]domain.Reference),
		categories: make(map[string]domain.Reference),
		products:   make(map[string]*domain.Product),
	}
}

// WriteCatalog upserts brands, categories and products.
func (s *MemoryStore) WriteCatalog(_ context.Context, catalog *contracts.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range catalog.Brands {
		s.brands[b.ID] = b
	}
	for _, c := range catalog.Categories {
		s.categories[c.ID] = c
	}
	for _, p := range catalog.Products {
		cp := *p
		cp.Brand, cp.Category = nil, nil
		s.products[p.ID] = &cp
	}
	return nil
}

// FindProducts returns one page of products matching pred.
func (s *MemoryStore) FindProducts(ctx context.Context, pred filter.Predicate, page, pageSize int) (*contracts.ResultPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError("failed to find products", err)
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = contracts.DefaultPageSize
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if pred.Matches(p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	total := int64(len(matched))
	start := contracts.Offset(page, pageSize)
	if start < 0 || start > total {
		start = total
	}
	end := total
	if remaining := total - start; remaining > int64(pageSize) {
		end = start + int64(pageSize)
	}

	items := make([]*domain.Product, 0, end-start)
	for _, p := range matched[start:end] {
		items = append(items, s.withReferences(p))
	}

	return &contracts.ResultPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// withReferences returns a copy of p with its brand and category attached.
func (s *MemoryStore) withReferences(p *domain.Product) *domain.Product {
	cp := *p
	if p.BrandID != nil {
		if b, ok := s.brands[*p.BrandID]; ok {
			cp.Brand = &b
		}
	}
	if p.CategoryID != nil {
		if c, ok := s.categories[*p.CategoryID]; ok {
			cp.Category = &c
		}
	}
	return &cp
}

// ListReferences returns all brands or categories ordered by name.
func (s *MemoryStore) ListReferences(ctx context.Context, kind domain.ReferenceKind) ([]domain.Reference, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError(fmt.Sprintf("failed to list %s", kind), err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var source map[string]domain.Reference
	switch kind {
	case domain.KindBrand:
		source = s.brands
	case domain.KindCategory:
		source = s.categories
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownReferenceKind, kind)
	}

	refs := make([]domain.Reference, 0, len(source))
	for _, r := range source {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return refs[i].ID < refs[j].ID
	})
	return refs, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
