package m_product

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the products table.
type Data struct {
	ProductID   string             `spanner:"product_id"`
	BrandID     spanner.NullString `spanner:"brand_id"`
	CategoryID  spanner.NullString `spanner:"category_id"`
	Name        string             `spanner:"name"`
	Description spanner.NullString `spanner:"description"`
	Price       big.Rat            `spanner:"price"`
	CreatedAt   time.Time          `spanner:"created_at"`
}

// Listing is a products row joined with the names of its brand and category.
type Listing struct {
	ProductID    string             `spanner:"product_id"`
	BrandID      spanner.NullString `spanner:"brand_id"`
	CategoryID   spanner.NullString `spanner:"category_id"`
	Name         string             `spanner:"name"`
	Description  spanner.NullString `spanner:"description"`
	Price        big.Rat            `spanner:"price"`
	CreatedAt    time.Time          `spanner:"created_at"`
	BrandName    spanner.NullString `spanner:"brand_name"`
	CategoryName spanner.NullString `spanner:"category_name"`
}
