package list_products

import (
	"context"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/filter"
	"github.com/light-bringer/procat-browse/internal/app/catalog/selection"
)

// Request contains the filter selections and the requested page.
type Request struct {
	Search     string
	Categories []string
	Brands     []string
	Page       int
}

// RequestFromSnapshot builds a Request for the current selection state.
func RequestFromSnapshot(s selection.Snapshot) *Request {
	return &Request{
		Search:     s.Search,
		Categories: s.Categories,
		Brands:     s.Brands,
		Page:       s.Page,
	}
}

// Query handles the product listing use case.
type Query struct {
	readModel contracts.ReadModel
	pageSize  int
}

// NewQuery creates a new list products query returning DefaultPageSize items per page.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
		pageSize:  contracts.DefaultPageSize,
	}
}

// Execute retrieves one page of products matching the request, with brand
// and category loaded in the same store call.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ResultPage, error) {
	pred := filter.Build(req.Search, req.Categories, req.Brands)

	page := req.Page
	if page < 1 {
		page = 1
	}

	return q.readModel.FindProducts(ctx, pred, page, q.pageSize)
}
