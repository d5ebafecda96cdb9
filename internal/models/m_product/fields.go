package m_product

// Field name constants for the products table.
const (
	TableName = "products"

	ProductID   = "product_id"
	BrandID     = "brand_id"
	CategoryID  = "category_id"
	Name        = "name"
	Description = "description"
	Price       = "price"
	CreatedAt   = "created_at"

	// Columns added by the brand/category joins of the listing query.
	BrandName    = "brand_name"
	CategoryName = "category_name"
)

// Columns lists the products table columns in insert order.
var Columns = []string{
	ProductID,
	BrandID,
	CategoryID,
	Name,
	Description,
	Price,
	CreatedAt,
}
