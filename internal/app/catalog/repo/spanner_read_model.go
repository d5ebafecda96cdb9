package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
	"github.com/light-bringer/procat-browse/internal/app/catalog/filter"
	"github.com/light-bringer/procat-browse/internal/models/m_brand"
	"github.com/light-bringer/procat-browse/internal/models/m_category"
	"github.com/light-bringer/procat-browse/internal/models/m_product"
	"github.com/light-bringer/procat-browse/internal/pkg/query"
)

// SpannerReadModel implements ReadModel for Spanner.
type SpannerReadModel struct {
	client *spanner.Client
}

// NewSpannerReadModel creates a new ReadModel backed by Spanner.
func NewSpannerReadModel(client *spanner.Client) *SpannerReadModel {
	return &SpannerReadModel{
		client: client,
	}
}

// listingQuery selects products with their brand and category names and
// applies the predicate. Ordering and pagination are left to the caller.
func listingQuery(pred filter.Predicate) *query.Builder {
	b := query.From(m_product.TableName+" p").
		Select(
			"p."+m_product.ProductID,
			"p."+m_product.BrandID,
			"p."+m_product.CategoryID,
			"p."+m_product.Name,
			"p."+m_product.Description,
			"p."+m_product.Price,
			"p."+m_product.CreatedAt,
			"b."+m_brand.Name+" AS "+m_product.BrandName,
			"c."+m_category.Name+" AS "+m_product.CategoryName,
		).
		LeftJoin(m_brand.TableName+" b", "b."+m_brand.ID+" = p."+m_product.BrandID).
		LeftJoin(m_category.TableName+" c", "c."+m_category.ID+" = p."+m_product.CategoryID)

	if pred.HasSearch() {
		b = b.Where(query.ContainsFold("p."+m_product.Name, pred.Search()))
	}
	if pred.HasCategories() {
		b = b.Where(query.In("p."+m_product.CategoryID, pred.CategoryIDs()))
	}
	if pred.HasBrands() {
		b = b.Where(query.In("p."+m_product.BrandID, pred.BrandIDs()))
	}
	return b
}

// productStatements returns the page query and the matching count query.
func productStatements(pred filter.Predicate, page, pageSize int) (list, count spanner.Statement) {
	base := listingQuery(pred)
	list = base.
		OrderBy("p."+m_product.CreatedAt, query.Asc).
		OrderBy("p."+m_product.ProductID, query.Asc).
		Limit(int64(pageSize)).
		Offset(contracts.Offset(page, pageSize)).
		Build()
	count = base.Count().Build()
	return list, count
}

// FindProducts retrieves one page of products matching pred.
// Both statements run in one read-only transaction so the total and the
// items come from the same snapshot.
func (rm *SpannerReadModel) FindProducts(ctx context.Context, pred filter.Predicate, page, pageSize int) (*contracts.ResultPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = contracts.DefaultPageSize
	}
	listStmt, countStmt := productStatements(pred, page, pageSize)

	txn := rm.client.ReadOnlyTransaction()
	defer txn.Close()

	total, err := countRows(ctx, txn, countStmt)
	if err != nil {
		return nil, storeError("failed to count products", err)
	}

	items := make([]*domain.Product, 0, pageSize)
	iter := txn.Query(ctx, listStmt)
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError("failed to iterate products", err)
		}

		var listing m_product.Listing
		if err := row.ToStruct(&listing); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}
		items = append(items, listingToDomain(&listing))
	}

	return &contracts.ResultPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ListReferences retrieves all brands or categories ordered by name.
func (rm *SpannerReadModel) ListReferences(ctx context.Context, kind domain.ReferenceKind) ([]domain.Reference, error) {
	var table, idCol string
	switch kind {
	case domain.KindBrand:
		table, idCol = m_brand.TableName, m_brand.ID
	case domain.KindCategory:
		table, idCol = m_category.TableName, m_category.ID
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownReferenceKind, kind)
	}

	stmt := query.From(table).
		Select(idCol+" AS id", "name").
		OrderBy("name", query.Asc).
		OrderBy(idCol, query.Asc).
		Build()

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	refs := make([]domain.Reference, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError(fmt.Sprintf("failed to list %s", kind), err)
		}

		var ref struct {
			ID   string `spanner:"id"`
			Name string `spanner:"name"`
		}
		if err := row.ToStruct(&ref); err != nil {
			return nil, fmt.Errorf("failed to parse %s row: %w", kind, err)
		}
		refs = append(refs, domain.Reference{ID: ref.ID, Name: ref.Name})
	}

	return refs, nil
}

// Ping runs a trivial query.
func (rm *SpannerReadModel) Ping(ctx context.Context) error {
	iter := rm.client.Single().Query(ctx, spanner.Statement{SQL: "SELECT 1"})
	defer iter.Stop()

	if _, err := iter.Next(); err != nil {
		return storeError("spanner ping failed", err)
	}
	return nil
}

func countRows(ctx context.Context, txn *spanner.ReadOnlyTransaction, stmt spanner.Statement) (int64, error) {
	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := row.Columns(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// listingToDomain converts a joined row to a Product.
func listingToDomain(l *m_product.Listing) *domain.Product {
	p := &domain.Product{
		ID:        l.ProductID,
		Name:      l.Name,
		Price:     domain.NewMoneyFromRat(&l.Price),
		CreatedAt: l.CreatedAt,
	}
	if l.Description.Valid {
		desc := l.Description.StringVal
		p.Description = &desc
	}
	if l.BrandID.Valid {
		id := l.BrandID.StringVal
		p.BrandID = &id
		if l.BrandName.Valid {
			p.Brand = &domain.Reference{ID: id, Name: l.BrandName.StringVal}
		}
	}
	if l.CategoryID.Valid {
		id := l.CategoryID.StringVal
		p.CategoryID = &id
		if l.CategoryName.Valid {
			p.Category = &domain.Reference{ID: id, Name: l.CategoryName.StringVal}
		}
	}
	return p
}
