package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
	"github.com/light-bringer/procat-browse/internal/app/catalog/filter"
)

type observation struct {
	operation string
	failed    bool
}

type recordingObserver struct {
	seen []observation
}

func (r *recordingObserver) ObserveStoreQuery(operation string, _ time.Duration, err error) {
	r.seen = append(r.seen, observation{operation: operation, failed: err != nil})
}

func TestInstrumentedReadModel(t *testing.T) {
	obs := &recordingObserver{}
	store := NewMemoryStore()
	require.NoError(t, store.WriteCatalog(context.Background(), catalogFixture(t)))
	rm := NewInstrumentedReadModel(store, obs)
	ctx := context.Background()

	page, err := rm.FindProducts(ctx, filter.Build("", nil, nil), 1, contracts.DefaultPageSize)
	require.NoError(t, err)
	assert.Equal(t, int64(15), page.Total)

	_, err = rm.ListReferences(ctx, domain.KindBrand)
	require.NoError(t, err)
	_, err = rm.ListReferences(ctx, domain.ReferenceKind("colors"))
	require.Error(t, err)
	require.NoError(t, rm.Ping(ctx))

	assert.Equal(t, []observation{
		{operation: "find_products"},
		{operation: "list_brands"},
		{operation: "list_colors", failed: true},
		{operation: "ping"},
	}, obs.seen)
}
