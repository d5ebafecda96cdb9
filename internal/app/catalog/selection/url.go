package selection

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query string parameter names.
const (
	ParamSearch     = "search"
	ParamCategories = "categories[]"
	ParamBrands     = "brands[]"
	ParamPage       = "page"
)

// FromQuery builds a State from URL query parameters. Missing parameters
// fall back to the defaults: empty search, no selections, page 1.
func FromQuery(values url.Values) *State {
	s := New()
	s.Hydrate(values)
	return s
}

// Hydrate replaces the whole state with the one encoded in values. The page
// number is taken from the URL as is; hydration does not count as a filter
// change.
func (s *State) Hydrate(values url.Values) {
	s.search = values.Get(ParamSearch)
	s.categories = dedupe(listParam(values, PropertyCategories))
	s.brands = dedupe(listParam(values, PropertyBrands))
	s.page = 1
	if raw := values.Get(ParamPage); raw != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 1 {
			s.page = n
		}
	}
}

// Encode renders the state as URL query parameters. Defaults are omitted so
// that an untouched state encodes to an empty query.
func (s *State) Encode() url.Values {
	values := url.Values{}
	if s.search != "" {
		values.Set(ParamSearch, s.search)
	}
	for _, id := range s.categories {
		values.Add(ParamCategories, id)
	}
	for _, id := range s.brands {
		values.Add(ParamBrands, id)
	}
	if s.page > 1 {
		values.Set(ParamPage, strconv.Itoa(s.page))
	}
	return values
}

// QueryString returns the encoded state, e.g.
// "brands%5B%5D=2&categories%5B%5D=5&search=test".
func (s *State) QueryString() string {
	return s.Encode().Encode()
}

// listParam collects the values of a list parameter in any of the accepted
// spellings: "name[]", "name" and indexed "name[0]", "name[1]", ...
func listParam(values url.Values, name string) []string {
	var out []string
	out = append(out, values[name+"[]"]...)
	out = append(out, values[name]...)

	type indexed struct {
		key     string
		n       int
		numeric bool
	}
	var keys []indexed
	prefix := name + "["
	for key := range values {
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, "]") || key == name+"[]" {
			continue
		}
		inner := key[len(prefix) : len(key)-1]
		n, err := strconv.Atoi(inner)
		keys = append(keys, indexed{key: key, n: n, numeric: err == nil})
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.numeric != b.numeric {
			return a.numeric
		}
		if a.numeric && a.n != b.n {
			return a.n < b.n
		}
		return a.key < b.key
	})
	for _, k := range keys {
		out = append(out, values[k.key]...)
	}
	return out
}
