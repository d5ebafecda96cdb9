package m_brand

import (
	"cloud.google.com/go/spanner"
)

// Data represents the database model for the brands table.
type Data struct {
	ID   string `spanner:"brand_id"`
	Name string `spanner:"name"`
}

// Model provides a facade for type-safe operations on the brands table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting (or replacing) a row.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{ID, Name, CreatedAt},
		[]interface{}{data.ID, data.Name, spanner.CommitTimestamp},
	)
}

// DeleteAllMut creates a Spanner mutation removing every row.
func (m *Model) DeleteAllMut() *spanner.Mutation {
	return spanner.Delete(TableName, spanner.AllKeys())
}
