package domain

import "time"

// ReferenceKind names a reference table a product points to.
type ReferenceKind string

const (
	KindBrand    ReferenceKind = "brands"
	KindCategory ReferenceKind = "categories"
)

// Valid reports whether k is a known reference kind.
func (k ReferenceKind) Valid() bool {
	return k == KindBrand || k == KindCategory
}

// Reference is a brand or category row.
type Reference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog entry joined with its brand and category.
// Brand and Category are nil when the foreign key is unset.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Price       *Money     `json:"price"`
	BrandID     *string    `json:"brand_id,omitempty"`
	CategoryID  *string    `json:"category_id,omitempty"`
	Brand       *Reference `json:"brand,omitempty"`
	Category    *Reference `json:"category,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
