package session

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
	"github.com/light-bringer/procat-browse/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/procat-browse/internal/app/catalog/queries/list_references"
	"github.com/light-bringer/procat-browse/internal/app/catalog/repo"
	"github.com/light-bringer/procat-browse/internal/app/catalog/selection"
)

// countingStore counts reference list loads.
type countingStore struct {
	*repo.MemoryStore
	referenceLoads atomic.Int32
}

func (c *countingStore) ListReferences(ctx context.Context, kind domain.ReferenceKind) ([]domain.Reference, error) {
	c.referenceLoads.Add(1)
	return c.MemoryStore.ListReferences(ctx, kind)
}

func strPtr(s string) *string { return &s }

// newStore returns 15 products, 3 categories ("5", "6", "7") and 3 brands
// ("1", "2", "3"). Product i has category 5+i%3 and brand 1+i/5; product 8
// is "Unique Laptop".
func newStore(t *testing.T) *countingStore {
	t.Helper()

	catalog := &contracts.Catalog{
		Brands: []domain.Reference{
			{ID: "1", Name: "Northwind"}, {ID: "2", Name: "Acme"}, {ID: "3", Name: "Globex"},
		},
		Categories: []domain.Reference{
			{ID: "5", Name: "Laptops"}, {ID: "6", Name: "Cameras"}, {ID: "7", Name: "Phones"},
		},
	}
	epoch := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		name := fmt.Sprintf("Item %02d", i+1)
		if i == 7 {
			name = "Unique Laptop"
		}
		price, err := domain.NewMoney(int64(5000+i), 100)
		require.NoError(t, err)
		catalog.Products = append(catalog.Products, &domain.Product{
			ID:         fmt.Sprintf("p%02d", i+1),
			Name:       name,
			Price:      price,
			CategoryID: strPtr(fmt.Sprintf("%d", 5+i%3)),
			BrandID:    strPtr(fmt.Sprintf("%d", 1+i/5)),
			CreatedAt:  epoch.Add(time.Duration(i) * time.Hour),
		})
	}

	store := &countingStore{MemoryStore: repo.NewMemoryStore()}
	require.NoError(t, store.WriteCatalog(context.Background(), catalog))
	return store
}

func newSession(t *testing.T) (*Session, *countingStore) {
	t.Helper()
	store := newStore(t)
	s := New("s-1", list_products.NewQuery(store), list_references.NewQuery(store, nil, nil))
	return s, store
}

func names(v *View) []string {
	out := make([]string, 0, len(v.Products))
	for _, p := range v.Products {
		out = append(out, p.Name)
	}
	return out
}

func TestSession_InitialRender(t *testing.T) {
	s, _ := newSession(t)

	view, err := s.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "s-1", view.SessionID)
	assert.Len(t, view.Products, contracts.DefaultPageSize)
	assert.Equal(t, "Item 01", view.Products[0].Name)
	assert.Equal(t, int64(15), view.Pagination.Total)
	assert.Equal(t, 3, view.Pagination.LastPage)
	assert.True(t, view.Pagination.HasMorePages)
	assert.Equal(t, "", view.Query)
	assert.Equal(t, []string{"Acme", "Globex", "Northwind"}, refNames(view.Brands))
	assert.Equal(t, []string{"Cameras", "Laptops", "Phones"}, refNames(view.Categories))
}

func refNames(refs []domain.Reference) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}

func TestSession_SearchFindsSingleProduct(t *testing.T) {
	s, _ := newSession(t)

	s.Update(func(state *selection.State) { state.SetSearch("Unique Laptop") })
	view, err := s.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Unique Laptop"}, names(view))
	assert.Equal(t, "search=Unique+Laptop", view.Query)
}

func TestSession_ToggleTwiceRestoresListing(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	before, err := s.Render(ctx)
	require.NoError(t, err)

	s.Update(func(state *selection.State) { state.ToggleCategory("5") })
	filtered, err := s.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), filtered.Pagination.Total)
	assert.Equal(t, 1, filtered.SelectedCategories)
	for _, p := range filtered.Products {
		assert.Equal(t, "Laptops", p.Category.Name)
	}

	s.Update(func(state *selection.State) { state.ToggleCategory("5") })
	after, err := s.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, names(before), names(after))
	assert.Equal(t, before.Pagination, after.Pagination)
}

func TestSession_FilterChangeResetsPage(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	s.Update(func(state *selection.State) { state.SetPage(3) })
	view, err := s.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Item 13", "Item 14", "Item 15"}, names(view))
	assert.Equal(t, "page=3", view.Query)

	s.Update(func(state *selection.State) { state.ToggleBrand("2") })
	view, err = s.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, view.State.Page)
	assert.Equal(t, 1, view.Pagination.Page)
	assert.Equal(t, []string{"Item 06", "Item 07", "Unique Laptop", "Item 09", "Item 10"}, names(view))
}

func TestSession_ClearAllReturnsFullListing(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	s.Update(func(state *selection.State) {
		state.SetSearch("item")
		state.ToggleCategory("6")
		state.ToggleBrand("3")
	})
	view, err := s.Render(ctx)
	require.NoError(t, err)
	assert.Less(t, view.Pagination.Total, int64(15))

	s.Update(func(state *selection.State) {
		state.ClearAllFilters()
		state.SetSearch("")
	})
	view, err = s.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(15), view.Pagination.Total)
}

func TestSession_HydrateFromURL(t *testing.T) {
	s, _ := newSession(t)

	values, err := url.ParseQuery("search=item&categories[]=5&brands[]=1")
	require.NoError(t, err)
	s.Hydrate(values)

	view, err := s.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Item 01", "Item 04"}, names(view))
	assert.Equal(t, selection.Snapshot{
		Search:     "item",
		Categories: []string{"5"},
		Brands:     []string{"1"},
		Page:       1,
	}, view.State)

	reparsed, err := url.ParseQuery(view.Query)
	require.NoError(t, err)
	assert.Equal(t, view.State, selection.FromQuery(reparsed).Snapshot())
}

func TestSession_ReferenceListsAreMemoized(t *testing.T) {
	s, store := newSession(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Render(ctx)
		require.NoError(t, err)
	}
	_, err := s.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), store.referenceLoads.Load())

	s.Reset()
	_, err = s.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(4), store.referenceLoads.Load())
}

func TestSession_ResetClearsSelection(t *testing.T) {
	s, _ := newSession(t)

	s.Update(func(state *selection.State) {
		state.SetSearch("x")
		state.ToggleBrand("1")
		state.SetPage(2)
	})
	s.Reset()

	assert.Equal(t, selection.New().Snapshot(), s.Snapshot())
}

func TestSession_ConcurrentUpdatesAreSerialized(t *testing.T) {
	s, _ := newSession(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(state *selection.State) { state.ToggleCategory("5") })
			_, err := s.Render(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// an even number of toggles leaves nothing selected
	assert.Empty(t, s.Snapshot().Categories)
}
