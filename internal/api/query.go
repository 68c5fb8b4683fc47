package api

import (
	"net/url"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// Filters are query parameters kept in insertion order, so identical filters
// always produce identical query strings.
type Filters struct {
	values *orderedmap.OrderedMap[string, string]
}

// NewFilters creates an empty filter set.
func NewFilters() *Filters {
	return &Filters{values: orderedmap.NewOrderedMap[string, string]()}
}

// Set adds or replaces a filter. Replacing keeps the original position.
// Empty values are ignored.
func (f *Filters) Set(key, value string) *Filters {
	if value == "" {
		return f
	}
	f.values.Set(key, value)
	return f
}

// Len returns the number of filters.
func (f *Filters) Len() int {
	if f == nil || f.values == nil {
		return 0
	}
	return f.values.Len()
}

// Encode renders key=value pairs joined by '&', without the leading '?'.
func (f *Filters) Encode() string {
	if f.Len() == 0 {
		return ""
	}
	parts := make([]string, 0, f.values.Len())
	for el := f.values.Front(); el != nil; el = el.Next() {
		parts = append(parts, url.QueryEscape(el.Key)+"="+url.QueryEscape(el.Value))
	}
	return strings.Join(parts, "&")
}

// withQuery appends the encoded filters, omitting the query string when there are none.
func withQuery(path string, filters *Filters) string {
	if encoded := filters.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}
