package list_references

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
)

// Cache is a shared store of reference lists keyed by string.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Query loads brand and category lists ordered by name.
//
// Lists are read from the cache when one is configured (cache-aside) and
// concurrent loads of the same kind share a single store call. Cache
// failures are logged and otherwise ignored.
type Query struct {
	readModel contracts.ReadModel
	cache     Cache
	logger    *zap.Logger
	group     singleflight.Group
}

// NewQuery creates a new list references query. cache may be nil.
func NewQuery(readModel contracts.ReadModel, cache Cache, logger *zap.Logger) *Query {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Query{
		readModel: readModel,
		cache:     cache,
		logger:    logger,
	}
}

// CacheKey returns the cache key of the list for kind.
func CacheKey(kind domain.ReferenceKind) string {
	return "references:" + string(kind)
}

// Execute returns all references of kind ordered by name.
func (q *Query) Execute(ctx context.Context, kind domain.ReferenceKind) ([]domain.Reference, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownReferenceKind, kind)
	}

	key := CacheKey(kind)
	if q.cache != nil {
		var cached []domain.Reference
		found, err := q.cache.Get(ctx, key, &cached)
		if err != nil {
			q.logger.Warn("reference cache read failed", zap.String("kind", string(kind)), zap.Error(err))
		}
		if found {
			return cached, nil
		}
	}

	// The shared load outlives any one caller's cancellation; each caller
	// still stops waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := q.group.DoChan(key, func() (interface{}, error) {
		return q.readModel.ListReferences(loadCtx, kind)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	refs := res.Val.([]domain.Reference)

	if q.cache != nil {
		if err := q.cache.Set(ctx, key, refs); err != nil {
			q.logger.Warn("reference cache write failed", zap.String("kind", string(kind)), zap.Error(err))
		}
	}

	// callers sharing a load must not alias each other's slice
	out := make([]domain.Reference, len(refs))
	copy(out, refs)
	return out, nil
}
