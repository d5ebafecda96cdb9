package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/light-bringer/procat-browse/internal/app/catalog/filter"
)

func TestProductStatements_NoFilter(t *testing.T) {
	list, count := productStatements(filter.Build("", nil, nil), 1, 6)

	assert.Equal(t, "SELECT p.product_id, p.brand_id, p.category_id, p.name, p.description, p.price, p.created_at, "+
		"b.name AS brand_name, c.name AS category_name FROM products p "+
		"LEFT JOIN brands b ON b.brand_id = p.brand_id "+
		"LEFT JOIN categories c ON c.category_id = p.category_id "+
		"ORDER BY p.created_at ASC, p.product_id ASC LIMIT @limit", list.SQL)
	assert.Equal(t, map[string]interface{}{"limit": int64(6)}, list.Params)

	assert.Equal(t, "SELECT COUNT(*) FROM products p "+
		"LEFT JOIN brands b ON b.brand_id = p.brand_id "+
		"LEFT JOIN categories c ON c.category_id = p.category_id", count.SQL)
	assert.Empty(t, count.Params)
}

func TestProductStatements_AllConstraints(t *testing.T) {
	pred := filter.Build("  Unique Laptop ", []string{"cat-1", "cat-2"}, []string{"brand-1"})
	list, count := productStatements(pred, 3, 6)

	assert.Contains(t, list.SQL, "WHERE STRPOS(LOWER(p.name), @p0) > 0 "+
		"AND p.category_id IN UNNEST(@p1) AND p.brand_id IN UNNEST(@p2)")
	assert.Contains(t, list.SQL, "LIMIT @limit OFFSET @offset")
	assert.Equal(t, map[string]interface{}{
		"p0":     "unique laptop",
		"p1":     []string{"cat-1", "cat-2"},
		"p2":     []string{"brand-1"},
		"limit":  int64(6),
		"offset": int64(12),
	}, list.Params)

	assert.Equal(t, map[string]interface{}{
		"p0": "unique laptop",
		"p1": []string{"cat-1", "cat-2"},
		"p2": []string{"brand-1"},
	}, count.Params)
	assert.NotContains(t, count.SQL, "ORDER BY")
}

func TestProductStatements_OnlyBrands(t *testing.T) {
	list, _ := productStatements(filter.Build("", nil, []string{"brand-9"}), 1, 6)

	assert.Contains(t, list.SQL, "WHERE p.brand_id IN UNNEST(@p0)")
	assert.NotContains(t, list.SQL, "STRPOS")
}
