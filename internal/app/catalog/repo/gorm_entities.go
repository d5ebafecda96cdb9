package repo

import (
	"time"

	"gorm.io/gorm"

	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
)

type brandEntity struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:255;not null;index"`
	CreatedAt time.Time
}

func (brandEntity) TableName() string { return "brands" }

type categoryEntity struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:255;not null;index"`
	CreatedAt time.Time
}

func (categoryEntity) TableName() string { return "categories" }

// productEntity stores the price in cents; SQLite has no exact decimal type.
type productEntity struct {
	ID          string          `gorm:"primaryKey;size:36"`
	BrandID     *string         `gorm:"size:36;index"`
	CategoryID  *string         `gorm:"size:36;index"`
	Name        string          `gorm:"size:255;not null"`
	Description *string         `gorm:"type:text"`
	PriceCents  int64           `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"index"`
	Brand       *brandEntity    `gorm:"foreignKey:BrandID"`
	Category    *categoryEntity `gorm:"foreignKey:CategoryID"`
}

func (productEntity) TableName() string { return "products" }

// MigrateGorm creates or updates the catalog tables.
func MigrateGorm(db *gorm.DB) error {
	return db.AutoMigrate(&brandEntity{}, &categoryEntity{}, &productEntity{})
}

func (e *productEntity) toDomain() *domain.Product {
	price, _ := domain.NewMoney(e.PriceCents, 100)
	p := &domain.Product{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Price:       price,
		BrandID:     e.BrandID,
		CategoryID:  e.CategoryID,
		CreatedAt:   e.CreatedAt,
	}
	if e.Brand != nil {
		p.Brand = &domain.Reference{ID: e.Brand.ID, Name: e.Brand.Name}
	}
	if e.Category != nil {
		p.Category = &domain.Reference{ID: e.Category.ID, Name: e.Category.Name}
	}
	return p
}

func productEntityFrom(p *domain.Product) *productEntity {
	e := &productEntity{
		ID:          p.ID,
		BrandID:     p.BrandID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
	if p.Price != nil {
		e.PriceCents = p.Price.Cents()
	}
	return e
}
