package selection

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	s := New()

	assert.Equal(t, "", s.Search())
	assert.Equal(t, []string{}, s.Categories())
	assert.Equal(t, []string{}, s.Brands())
	assert.Equal(t, 1, s.Page())
	assert.False(t, s.HasFilters())
}

func TestToggleCategory_AppendsThenRemoves(t *testing.T) {
	s := New()

	s.ToggleCategory("5")
	assert.Equal(t, []string{"5"}, s.Categories())

	s.ToggleCategory("5")
	assert.Equal(t, []string{}, s.Categories())
}

func TestToggleCategory_PreservesOrder(t *testing.T) {
	s := New()
	for _, id := range []string{"1", "2", "3", "4"} {
		s.ToggleCategory(id)
	}
	require.Equal(t, []string{"1", "2", "3", "4"}, s.Categories())

	s.ToggleCategory("2")
	assert.Equal(t, []string{"1", "3", "4"}, s.Categories())

	s.ToggleCategory("2")
	assert.Equal(t, []string{"1", "3", "4", "2"}, s.Categories())
}

func TestToggle_EvenRepetitionsRestoreSelection(t *testing.T) {
	for _, times := range []int{2, 4, 6} {
		s := New()
		s.ToggleCategory("a")
		s.ToggleCategory("b")
		before := s.Categories()

		for i := 0; i < times; i++ {
			s.ToggleCategory("c")
		}
		assert.Equal(t, before, s.Categories(), "after %d toggles", times)

		for i := 0; i < times; i++ {
			s.ToggleCategory("a")
		}
		assert.ElementsMatch(t, before, s.Categories(), "after %d toggles of a selected id", times)
	}
}

func TestToggle_NormalizesID(t *testing.T) {
	s := New()

	s.ToggleBrand(" 7 ")
	assert.Equal(t, []string{"7"}, s.Brands())

	s.ToggleBrand("7")
	assert.Equal(t, []string{}, s.Brands())
}

func TestToggle_BlankIDIsIgnored(t *testing.T) {
	s := New()
	s.SetPage(3)

	s.ToggleBrand("  ")

	assert.Equal(t, []string{}, s.Brands())
	assert.Equal(t, 3, s.Page())
}

func TestToggle_CategoriesAndBrandsIndependent(t *testing.T) {
	s := New()

	s.ToggleCategory("1")
	s.ToggleBrand("1")

	assert.Equal(t, []string{"1"}, s.Categories())
	assert.Equal(t, []string{"1"}, s.Brands())
}

func TestClearFilters(t *testing.T) {
	t.Run("clear categories keeps brands", func(t *testing.T) {
		s := New()
		s.ToggleCategory("1")
		s.ToggleCategory("2")
		s.ToggleBrand("9")

		s.ClearCategoryFilter()

		assert.Equal(t, []string{}, s.Categories())
		assert.Equal(t, []string{"9"}, s.Brands())
	})

	t.Run("clear brands keeps categories", func(t *testing.T) {
		s := New()
		s.ToggleCategory("1")
		s.ToggleBrand("9")

		s.ClearBrandFilter()

		assert.Equal(t, []string{"1"}, s.Categories())
		assert.Equal(t, []string{}, s.Brands())
	})

	t.Run("clear all keeps search", func(t *testing.T) {
		s := New()
		s.SetSearch("laptop")
		s.ToggleCategory("1")
		s.ToggleBrand("9")

		s.ClearAllFilters()

		assert.False(t, s.HasFilters())
		assert.Equal(t, "laptop", s.Search())
	})

	t.Run("clearing empty filter is a no-op", func(t *testing.T) {
		s := New()

		s.ClearCategoryFilter()
		s.ClearBrandFilter()
		s.ClearAllFilters()

		assert.Equal(t, New().Snapshot(), s.Snapshot())
	})
}

func TestEveryMutationResetsPage(t *testing.T) {
	mutations := map[string]func(s *State){
		"set search":       func(s *State) { s.SetSearch("x") },
		"clear search":     func(s *State) { s.SetSearch("") },
		"set categories":   func(s *State) { s.SetCategories([]string{"1"}) },
		"set brands":       func(s *State) { s.SetBrands([]string{"1"}) },
		"toggle category":  func(s *State) { s.ToggleCategory("1") },
		"toggle brand":     func(s *State) { s.ToggleBrand("1") },
		"clear categories": func(s *State) { s.ClearCategoryFilter() },
		"clear brands":     func(s *State) { s.ClearBrandFilter() },
		"clear all":        func(s *State) { s.ClearAllFilters() },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			s := New()
			s.SetPage(4)

			mutate(s)

			assert.Equal(t, 1, s.Page())
		})
	}
}

func TestOnFilterChanged(t *testing.T) {
	cases := map[string]bool{
		"search":       true,
		"categories":   true,
		"categories.0": true,
		"brands":       true,
		"brands.2":     true,
		"page":         false,
		"perPage":      false,
		"":             false,
	}
	for property, resets := range cases {
		s := New()
		s.SetPage(5)

		s.OnFilterChanged(property)

		if resets {
			assert.Equal(t, 1, s.Page(), property)
		} else {
			assert.Equal(t, 5, s.Page(), property)
		}
	}
}

func TestSetPage_ClampsToFirstPage(t *testing.T) {
	s := New()

	s.SetPage(0)
	assert.Equal(t, 1, s.Page())

	s.SetPage(-3)
	assert.Equal(t, 1, s.Page())

	s.SetPage(2)
	assert.Equal(t, 2, s.Page())
}

func TestSetCategories_Dedupes(t *testing.T) {
	s := New()

	s.SetCategories([]string{"3", "1", "3", " ", "2"})

	assert.Equal(t, []string{"3", "1", "2"}, s.Categories())
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := New()
	s.ToggleCategory("1")

	got := s.Categories()
	got[0] = "changed"
	snap := s.Snapshot()
	snap.Categories[0] = "changed"

	assert.Equal(t, []string{"1"}, s.Categories())
}

func TestSearchKeepsSpecialCharacters(t *testing.T) {
	s := New()

	s.SetSearch("O'Reilly")

	assert.Equal(t, "O'Reilly", s.Search())
}

func TestReset(t *testing.T) {
	s := New()
	s.SetSearch("x")
	s.ToggleBrand("1")
	s.SetPage(2)

	s.Reset()

	assert.Equal(t, New().Snapshot(), s.Snapshot())
}

func TestURL_RoundTrip(t *testing.T) {
	s := New()
	s.SetSearch("test")
	s.ToggleCategory("5")
	s.ToggleBrand("2")

	values, err := url.ParseQuery(s.QueryString())
	require.NoError(t, err)
	decoded := FromQuery(values)

	assert.Equal(t, s.Snapshot(), decoded.Snapshot())
	assert.Equal(t, Snapshot{Search: "test", Categories: []string{"5"}, Brands: []string{"2"}, Page: 1}, decoded.Snapshot())
}

func TestURL_RoundTripKeepsOrderAndPage(t *testing.T) {
	s := New()
	for _, id := range []string{"9", "3", "7"} {
		s.ToggleCategory(id)
	}
	s.SetPage(3)

	values, err := url.ParseQuery(s.QueryString())
	require.NoError(t, err)

	assert.Equal(t, s.Snapshot(), FromQuery(values).Snapshot())
}

func TestEncode_OmitsDefaults(t *testing.T) {
	assert.Equal(t, "", New().QueryString())
}

func TestEncode_ParameterNames(t *testing.T) {
	s := New()
	s.SetSearch("a b")
	s.ToggleCategory("5")
	s.ToggleCategory("6")
	s.ToggleBrand("2")

	values := s.Encode()

	assert.Equal(t, "a b", values.Get("search"))
	assert.Equal(t, []string{"5", "6"}, values["categories[]"])
	assert.Equal(t, []string{"2"}, values["brands[]"])
	assert.Empty(t, values.Get("page"))
}

func TestFromQuery_AbsentParametersUseDefaults(t *testing.T) {
	assert.Equal(t, New().Snapshot(), FromQuery(url.Values{}).Snapshot())
	assert.Equal(t, New().Snapshot(), FromQuery(nil).Snapshot())
}

func TestFromQuery_AcceptsAlternateListSpellings(t *testing.T) {
	values, err := url.ParseQuery("categories[1]=b&categories[0]=a&categories[10]=c&brands=x&brands=y")
	require.NoError(t, err)

	s := FromQuery(values)

	assert.Equal(t, []string{"a", "b", "c"}, s.Categories())
	assert.Equal(t, []string{"x", "y"}, s.Brands())
}

func TestFromQuery_DedupesAndKeepsPage(t *testing.T) {
	values, err := url.ParseQuery("categories[]=1&categories[]=1&categories[]=2&page=4")
	require.NoError(t, err)

	s := FromQuery(values)

	assert.Equal(t, []string{"1", "2"}, s.Categories())
	assert.Equal(t, 4, s.Page())
}

func TestFromQuery_InvalidPageFallsBackToFirst(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-2", ""} {
		s := FromQuery(url.Values{"page": {raw}})
		assert.Equal(t, 1, s.Page(), raw)
	}
}
