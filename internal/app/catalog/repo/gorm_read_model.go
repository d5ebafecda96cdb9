package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
	"github.com/light-bringer/procat-browse/internal/app/catalog/filter"
)

// GormReadModel implements ReadModel on top of GORM.
type GormReadModel struct {
	db *gorm.DB
}

// NewGormReadModel creates a new ReadModel backed by db.
func NewGormReadModel(db *gorm.DB) *GormReadModel {
	return &GormReadModel{db: db}
}

// searchScope filters products whose name contains the search term, ignoring case.
func searchScope(pred filter.Predicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !pred.HasSearch() {
			return db
		}
		return db.Where("INSTR("+sqliteLowerFunc+"(products.name), ?) > 0", pred.Term())
	}
}

// byCategoriesScope filters products by any of the selected categories.
func byCategoriesScope(pred filter.Predicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !pred.HasCategories() {
			return db
		}
		return db.Where("products.category_id IN ?", pred.CategoryIDs())
	}
}

// byBrandsScope filters products by any of the selected brands.
func byBrandsScope(pred filter.Predicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !pred.HasBrands() {
			return db
		}
		return db.Where("products.brand_id IN ?", pred.BrandIDs())
	}
}

func (r *GormReadModel) filtered(ctx context.Context, pred filter.Predicate) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&productEntity{}).
		Scopes(searchScope(pred), byCategoriesScope(pred), byBrandsScope(pred))
}

// FindProducts retrieves one page of products matching pred with brand and
// category preloaded.
func (r *GormReadModel) FindProducts(ctx context.Context, pred filter.Predicate, page, pageSize int) (*contracts.ResultPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = contracts.DefaultPageSize
	}

	var total int64
	if err := r.filtered(ctx, pred).Count(&total).Error; err != nil {
		return nil, storeError("failed to count products", err)
	}

	var rows []productEntity
	err := r.filtered(ctx, pred).
		Preload("Brand").
		Preload("Category").
		Order("products.created_at ASC").
		Order("products.id ASC").
		Offset(int(contracts.Offset(page, pageSize))).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, storeError("failed to find products", err)
	}

	items := make([]*domain.Product, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toDomain())
	}

	return &contracts.ResultPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ListReferences retrieves all brands or categories ordered by name.
func (r *GormReadModel) ListReferences(ctx context.Context, kind domain.ReferenceKind) ([]domain.Reference, error) {
	refs := make([]domain.Reference, 0)
	var err error

	switch kind {
	case domain.KindBrand:
		var rows []brandEntity
		err = r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error
		for _, row := range rows {
			refs = append(refs, domain.Reference{ID: row.ID, Name: row.Name})
		}
	case domain.KindCategory:
		var rows []categoryEntity
		err = r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error
		for _, row := range rows {
			refs = append(refs, domain.Reference{ID: row.ID, Name: row.Name})
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownReferenceKind, kind)
	}

	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to list %s", kind), err)
	}
	return refs, nil
}

// Ping checks the underlying connection.
func (r *GormReadModel) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return storeError("failed to get sql handle", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storeError("database ping failed", err)
	}
	return nil
}
