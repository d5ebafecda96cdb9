package repo

import (
	"context"
	"time"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
	"github.com/light-bringer/procat-browse/internal/app/catalog/filter"
)

// QueryObserver receives the duration and result of every store call.
type QueryObserver interface {
	ObserveStoreQuery(operation string, d time.Duration, err error)
}

// InstrumentedReadModel reports the timing of each call to an observer.
type InstrumentedReadModel struct {
	next     contracts.ReadModel
	observer QueryObserver
}

// NewInstrumentedReadModel wraps next.
func NewInstrumentedReadModel(next contracts.ReadModel, observer QueryObserver) *InstrumentedReadModel {
	return &InstrumentedReadModel{next: next, observer: observer}
}

func (r *InstrumentedReadModel) FindProducts(ctx context.Context, pred filter.Predicate, page, pageSize int) (*contracts.ResultPage, error) {
	start := time.Now()
	result, err := r.next.FindProducts(ctx, pred, page, pageSize)
	r.observer.ObserveStoreQuery("find_products", time.Since(start), err)
	return result, err
}

func (r *InstrumentedReadModel) ListReferences(ctx context.Context, kind domain.ReferenceKind) ([]domain.Reference, error) {
	start := time.Now()
	refs, err := r.next.ListReferences(ctx, kind)
	r.observer.ObserveStoreQuery("list_"+string(kind), time.Since(start), err)
	return refs, err
}

func (r *InstrumentedReadModel) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.next.Ping(ctx)
	r.observer.ObserveStoreQuery("ping", time.Since(start), err)
	return err
}
