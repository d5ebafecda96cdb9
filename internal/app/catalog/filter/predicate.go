// Package filter turns a search term and category/brand selections into a
// product predicate that every catalog store can evaluate.
//
// A product matches when all of the active constraints hold:
//   - the trimmed search term is a case-insensitive substring of its name;
//   - its category is one of the selected categories;
//   - its brand is one of the selected brands.
//
// Empty or blank inputs impose no constraint.
package filter

import (
	"strings"

	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
)

// Predicate is an immutable product filter.
type Predicate struct {
	search      string
	term        string
	categoryIDs []string
	brandIDs    []string
}

// Build creates a Predicate. It never fails: nil slices, blank IDs and a
// whitespace-only search are all treated as "no constraint".
func Build(search string, categoryIDs, brandIDs []string) Predicate {
	search = strings.TrimSpace(search)
	return Predicate{
		search:      search,
		term:        strings.ToLower(search),
		categoryIDs: normalizeIDs(categoryIDs),
		brandIDs:    normalizeIDs(brandIDs),
	}
}

// Search returns the trimmed search term, or "" when search is inactive.
func (p Predicate) Search() string { return p.search }

// Term returns the lower-cased search term used for matching.
func (p Predicate) Term() string { return p.term }

// CategoryIDs returns a copy of the selected category IDs.
func (p Predicate) CategoryIDs() []string { return cloneIDs(p.categoryIDs) }

// BrandIDs returns a copy of the selected brand IDs.
func (p Predicate) BrandIDs() []string { return cloneIDs(p.brandIDs) }

// HasSearch reports whether the name constraint is active.
func (p Predicate) HasSearch() bool { return p.search != "" }

// HasCategories reports whether the category constraint is active.
func (p Predicate) HasCategories() bool { return len(p.categoryIDs) > 0 }

// HasBrands reports whether the brand constraint is active.
func (p Predicate) HasBrands() bool { return len(p.brandIDs) > 0 }

// IsEmpty reports whether the predicate matches every product.
func (p Predicate) IsEmpty() bool {
	return !p.HasSearch() && !p.HasCategories() && !p.HasBrands()
}

// Matches evaluates the predicate against a single product.
func (p Predicate) Matches(product *domain.Product) bool {
	if product == nil {
		return false
	}
	if p.HasSearch() && !strings.Contains(strings.ToLower(product.Name), p.term) {
		return false
	}
	if p.HasCategories() && !containsID(p.categoryIDs, product.CategoryID) {
		return false
	}
	if p.HasBrands() && !containsID(p.brandIDs, product.BrandID) {
		return false
	}
	return true
}

func containsID(ids []string, id *string) bool {
	if id == nil {
		return false
	}
	for _, candidate := range ids {
		if candidate == *id {
			return true
		}
	}
	return false
}

func normalizeIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
