package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
)

// GormWriter loads catalogs through GORM in a single transaction.
type GormWriter struct {
	db *gorm.DB
}

// NewGormWriter creates a CatalogWriter for db.
func NewGormWriter(db *gorm.DB) *GormWriter {
	return &GormWriter{db: db}
}

// WriteCatalog upserts brands, categories and products.
func (w *GormWriter) WriteCatalog(ctx context.Context, catalog *contracts.Catalog) error {
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(catalog.Brands) > 0 {
			rows := make([]brandEntity, 0, len(catalog.Brands))
			for _, b := range catalog.Brands {
				rows = append(rows, brandEntity{ID: b.ID, Name: b.Name})
			}
			if err := upsert(tx).Create(&rows).Error; err != nil {
				return err
			}
		}

		if len(catalog.Categories) > 0 {
			rows := make([]categoryEntity, 0, len(catalog.Categories))
			for _, c := range catalog.Categories {
				rows = append(rows, categoryEntity{ID: c.ID, Name: c.Name})
			}
			if err := upsert(tx).Create(&rows).Error; err != nil {
				return err
			}
		}

		if len(catalog.Products) > 0 {
			rows := make([]*productEntity, 0, len(catalog.Products))
			for _, p := range catalog.Products {
				rows = append(rows, productEntityFrom(p))
			}
			if err := upsert(tx).Omit(clause.Associations).CreateInBatches(rows, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeError("failed to write catalog", err)
	}
	return nil
}

// upsert returns a fresh statement that overwrites rows with the same key.
func upsert(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.OnConflict{UpdateAll: true})
}
