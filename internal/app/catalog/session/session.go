// Package session owns the per-user browsing state of the catalog view.
//
// A Session pairs a selection.State with brand and category lists that are
// loaded once per session. Every interaction runs under the session lock,
// so a session handles one request at a time while sessions never share
// filter state.
package session

import (
	"context"
	"net/url"
	"sync"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
	"github.com/light-bringer/procat-browse/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/procat-browse/internal/app/catalog/queries/list_references"
	"github.com/light-bringer/procat-browse/internal/app/catalog/selection"
)

// Pagination describes the position of a ResultPage.
type Pagination struct {
	Total        int64 `json:"total"`
	Page         int   `json:"page"`
	PageSize     int   `json:"page_size"`
	LastPage     int   `json:"last_page"`
	HasPages     bool  `json:"has_pages"`
	HasMorePages bool  `json:"has_more_pages"`
	From         int64 `json:"from"`
	To           int64 `json:"to"`
}

// View is everything needed to render the catalog page for one session.
type View struct {
	SessionID          string             `json:"session_id"`
	State              selection.Snapshot `json:"state"`
	Query              string             `json:"query"`
	Products           []*domain.Product  `json:"products"`
	Pagination         Pagination         `json:"pagination"`
	Brands             []domain.Reference `json:"brands"`
	Categories         []domain.Reference `json:"categories"`
	SelectedBrands     int                `json:"selected_brands"`
	SelectedCategories int                `json:"selected_categories"`
}

// Session is one user's catalog browsing session.
type Session struct {
	id         string
	products   *list_products.Query
	references *list_references.Query

	mu         sync.Mutex
	state      *selection.State
	brands     []domain.Reference
	categories []domain.Reference
}

// New creates a session with an empty selection.
func New(id string, products *list_products.Query, references *list_references.Query) *Session {
	return &Session{
		id:         id,
		products:   products,
		references: references,
		state:      selection.New(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Update applies fn to the selection state under the session lock.
func (s *Session) Update(fn func(state *selection.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Hydrate replaces the selection state with the one encoded in values.
func (s *Session) Hydrate(values url.Values) {
	s.Update(func(state *selection.State) {
		state.Hydrate(values)
	})
}

// Snapshot returns a copy of the current selection state.
func (s *Session) Snapshot() selection.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Reset clears the selection and drops the memoized reference lists.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()
	s.brands = nil
	s.categories = nil
}

// Brands returns the brand list, loading it on first use.
func (s *Session) Brands(ctx context.Context) ([]domain.Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadBrands(ctx)
}

// Categories returns the category list, loading it on first use.
func (s *Session) Categories(ctx context.Context) ([]domain.Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCategories(ctx)
}

// Render lists the products for the current selection and returns the view.
func (s *Session) Render(ctx context.Context) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state.Snapshot()
	page, err := s.products.Execute(ctx, list_products.RequestFromSnapshot(snap))
	if err != nil {
		return nil, err
	}

	brands, err := s.loadBrands(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	return &View{
		SessionID:          s.id,
		State:              snap,
		Query:              s.state.QueryString(),
		Products:           page.Items,
		Pagination:         paginationOf(page),
		Brands:             brands,
		Categories:         categories,
		SelectedBrands:     len(snap.Brands),
		SelectedCategories: len(snap.Categories),
	}, nil
}

func (s *Session) loadBrands(ctx context.Context) ([]domain.Reference, error) {
	if s.brands == nil {
		refs, err := s.references.Execute(ctx, domain.KindBrand)
		if err != nil {
			return nil, err
		}
		s.brands = refs
	}
	return s.brands, nil
}

func (s *Session) loadCategories(ctx context.Context) ([]domain.Reference, error) {
	if s.categories == nil {
		refs, err := s.references.Execute(ctx, domain.KindCategory)
		if err != nil {
			return nil, err
		}
		s.categories = refs
	}
	return s.categories, nil
}

func paginationOf(page *contracts.ResultPage) Pagination {
	return Pagination{
		Total:        page.Total,
		Page:         page.Page,
		PageSize:     page.PageSize,
		LastPage:     page.LastPage(),
		HasPages:     page.HasPages(),
		HasMorePages: page.HasMorePages(),
		From:         page.From(),
		To:           page.To(),
	}
}
