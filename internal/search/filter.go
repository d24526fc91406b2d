package search

import "net/url"

// Filter is the catalog browse state: a category selection and a free-text
// query. Its zero value matches the whole catalog. The state is addressable:
// it round-trips through URL query values so a client can restore it from
// navigation state alone.
type Filter struct {
	Category string `json:"category,omitempty"`
	Query    string `json:"query,omitempty"`
}

// Query parameter names.
const (
	paramCategory = "category"
	paramQuery    = "q"
)

// ParseFilter builds a Filter from query values. Unknown parameters are
// ignored.
func ParseFilter(values url.Values) Filter {
	return Filter{
		Category: values.Get(paramCategory),
		Query:    values.Get(paramQuery),
	}
}

// Values encodes the filter as query values, omitting empty fields.
func (f Filter) Values() url.Values {
	values := url.Values{}
	if f.Category != "" {
		values.Set(paramCategory, f.Category)
	}
	if f.Query != "" {
		values.Set(paramQuery, f.Query)
	}
	return values
}

// Encode returns the filter as a canonical query string.
func (f Filter) Encode() string {
	return f.Values().Encode()
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Category == "" && f.Query == ""
}
