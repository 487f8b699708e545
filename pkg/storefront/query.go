package storefront

import (
	"net/url"
	"strconv"
	"strings"
)

// SortKey values understood by the catalog API.
const (
	SortPriceLowToHigh = "price-lowtohigh"
	SortPriceHighToLow = "price-hightolow"
	SortTitleAToZ      = "title-atoz"
	SortTitleZToA      = "title-ztoa"
)

// DefaultPageSize is the catalog page size assumed when the backend does
// not state one.
const DefaultPageSize = 20

// Query is one catalog fetch: the filter selection plus sort and paging.
type Query struct {
	Selection Selection
	Sort      string
	Page      int
	PageSize  int
}

// Values encodes the query for the catalog API. Each filter dimension
// becomes one parameter whose value is the comma-joined option list; sort
// and paging ride along as sortBy, page and limit.
func (q Query) Values() url.Values {
	v := EncodeSelection(q.Selection)
	if q.Sort != "" {
		v.Set("sortBy", q.Sort)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("limit", strconv.Itoa(q.PageSize))
	}
	return v
}

// EncodeSelection serializes only the filter dimensions, comma-joining each
// dimension's options. An empty selection yields empty values, which is how
// the page URL loses its query string when the last filter is cleared.
func EncodeSelection(sel Selection) url.Values {
	v := url.Values{}
	for _, dim := range sel.Dimensions() {
		v.Set(dim, strings.Join(sel[dim], ","))
	}
	return v
}

// PageURLQuery renders the query-string form used for page URL reflection:
// "?category=bridal,saree&Price=under_1000", or "" when no filters are
// active.
func PageURLQuery(sel Selection) string {
	v := EncodeSelection(sel)
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
