package contracts

import (
	"context"
	"math"

	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
	"github.com/light-bringer/procat-browse/internal/app/catalog/filter"
)

// DefaultPageSize is the number of products on one catalog page.
const DefaultPageSize = 6

// ResultPage is one page of filtered products with their brand and category.
type ResultPage struct {
	Items    []*domain.Product `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// LastPage returns the number of the last page, at least 1.
func (r *ResultPage) LastPage() int {
	if r.PageSize <= 0 || r.Total <= 0 {
		return 1
	}
	return int((r.Total + int64(r.PageSize) - 1) / int64(r.PageSize))
}

// HasPages reports whether the results span more than one page.
func (r *ResultPage) HasPages() bool {
	return r.LastPage() > 1
}

// HasMorePages reports whether a page exists after this one.
func (r *ResultPage) HasMorePages() bool {
	return r.Page < r.LastPage()
}

// From returns the 1-based position of the first item on the page, or 0 when empty.
func (r *ResultPage) From() int64 {
	if len(r.Items) == 0 {
		return 0
	}
	return int64(r.Page-1)*int64(r.PageSize) + 1
}

// To returns the 1-based position of the last item on the page, or 0 when empty.
func (r *ResultPage) To() int64 {
	if len(r.Items) == 0 {
		return 0
	}
	return r.From() + int64(len(r.Items)) - 1
}

// Offset returns the number of rows to skip for page and pageSize. It
// saturates at math.MaxInt64 instead of overflowing for huge page numbers.
func Offset(page, pageSize int) int64 {
	if page < 1 || pageSize <= 0 {
		return 0
	}
	skipped := int64(page - 1)
	if skipped > math.MaxInt64/int64(pageSize) {
		return math.MaxInt64
	}
	return skipped * int64(pageSize)
}

// ReadModel defines the data store queries used by the catalog view.
// Implementations return ErrStoreUnavailable (wrapped) when the store cannot be reached.
type ReadModel interface {
	// FindProducts returns one page of products matching pred, ordered by
	// creation time then ID, with brand and category loaded.
	FindProducts(ctx context.Context, pred filter.Predicate, page, pageSize int) (*ResultPage, error)

	// ListReferences returns all brands or categories ordered by name.
	ListReferences(ctx context.Context, kind domain.ReferenceKind) ([]domain.Reference, error)

	// Ping checks that the store answers queries.
	Ping(ctx context.Context) error
}
