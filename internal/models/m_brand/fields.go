package m_brand

// Field name constants for the brands table.
const (
	TableName = "brands"

	ID        = "brand_id"
	Name      = "name"
	CreatedAt = "created_at"
)
