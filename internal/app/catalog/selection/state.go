// Package selection holds the per-session filter selections of the catalog
// view and keeps them in sync with the URL query string.
package selection

import (
	"strings"
)

// Property names accepted by OnFilterChanged.
const (
	PropertySearch     = "search"
	PropertyCategories = "categories"
	PropertyBrands     = "brands"
)

// State is the mutable filter selection of one browsing session.
// It is not safe for concurrent use; a session owns exactly one State.
type State struct {
	search     string
	categories []string
	brands     []string
	page       int
}

// Snapshot is an immutable copy of a State used for rendering.
type Snapshot struct {
	Search     string   `json:"search"`
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	Page       int      `json:"page"`
}

// New returns an empty State on page 1.
func New() *State {
	return &State{
		categories: []string{},
		brands:     []string{},
		page:       1,
	}
}

// Search returns the current search text as entered.
func (s *State) Search() string { return s.search }

// Categories returns a copy of the selected category IDs in selection order.
func (s *State) Categories() []string { return clone(s.categories) }

// Brands returns a copy of the selected brand IDs in selection order.
func (s *State) Brands() []string { return clone(s.brands) }

// Page returns the current 1-based page number.
func (s *State) Page() int { return s.page }

// HasFilters reports whether any category or brand is selected.
func (s *State) HasFilters() bool {
	return len(s.categories) > 0 || len(s.brands) > 0
}

// SetSearch replaces the search text.
func (s *State) SetSearch(search string) {
	s.search = search
	s.OnFilterChanged(PropertySearch)
}

// SetCategories replaces the category selection.
func (s *State) SetCategories(ids []string) {
	s.categories = dedupe(ids)
	s.OnFilterChanged(PropertyCategories)
}

// SetBrands replaces the brand selection.
func (s *State) SetBrands(ids []string) {
	s.brands = dedupe(ids)
	s.OnFilterChanged(PropertyBrands)
}

// ToggleCategory removes id from the category selection when present and
// appends it otherwise.
func (s *State) ToggleCategory(id string) {
	if next, ok := toggle(s.categories, id); ok {
		s.categories = next
		s.OnFilterChanged(PropertyCategories)
	}
}

// ToggleBrand removes id from the brand selection when present and
// appends it otherwise.
func (s *State) ToggleBrand(id string) {
	if next, ok := toggle(s.brands, id); ok {
		s.brands = next
		s.OnFilterChanged(PropertyBrands)
	}
}

// ClearCategoryFilter empties the category selection.
func (s *State) ClearCategoryFilter() {
	s.categories = []string{}
	s.OnFilterChanged(PropertyCategories)
}

// ClearBrandFilter empties the brand selection.
func (s *State) ClearBrandFilter() {
	s.brands = []string{}
	s.OnFilterChanged(PropertyBrands)
}

// ClearAllFilters empties both the category and brand selections.
// The search text is kept.
func (s *State) ClearAllFilters() {
	s.categories = []string{}
	s.brands = []string{}
	s.OnFilterChanged(PropertyCategories)
	s.OnFilterChanged(PropertyBrands)
}

// OnFilterChanged must run after any change to a filter property. Changes to
// search, categories or brands (including element paths such as
// "categories.0") send the view back to the first page.
func (s *State) OnFilterChanged(property string) {
	for _, prefix := range []string{PropertySearch, PropertyCategories, PropertyBrands} {
		if strings.HasPrefix(property, prefix) {
			s.resetPage()
			return
		}
	}
}

// SetPage moves to page n. Values below 1 select the first page.
func (s *State) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.page = n
}

func (s *State) resetPage() {
	s.page = 1
}

// Reset returns the state to its initial value.
func (s *State) Reset() {
	*s = *New()
}

// Snapshot returns an immutable copy of the state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Search:     s.search,
		Categories: clone(s.categories),
		Brands:     clone(s.brands),
		Page:       s.page,
	}
}

// toggle returns ids with id removed (keeping the order of the rest) or
// appended. ok is false for a blank id.
func toggle(ids []string, id string) (next []string, ok bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ids, false
	}
	for i, existing := range ids {
		if existing == id {
			next = make([]string, 0, len(ids)-1)
			next = append(next, ids[:i]...)
			next = append(next, ids[i+1:]...)
			return next, true
		}
	}
	next = make([]string, 0, len(ids)+1)
	next = append(next, ids...)
	next = append(next, id)
	return next, true
}

func dedupe(ids []string) []string {
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
	return out
}

func clone(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
