package m_category

// Field name constants for the categories table.
const (
	TableName = "categories"

	ID        = "category_id"
	Name      = "name"
	CreatedAt = "created_at"
)
