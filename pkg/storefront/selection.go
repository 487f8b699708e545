// Package storefront implements the client-side catalog state machine used
// by Darzie's Couture storefront frontends: filter selection with durable
// session persistence, debounced catalog queries with URL reflection, and
// stock-aware cart reconciliation against the backend API.
package storefront

import (
	"slices"
	"sort"
)

// Filter dimension names as they appear in persisted selections and page
// URLs. Price is historically capitalized on the wire.
const (
	DimensionCategory = "category"
	DimensionPrice    = "Price"
)

// Selection maps a filter dimension to its ordered set of selected option
// identifiers. The Price dimension holds at most one option; every other
// dimension is a multi-select set.
type Selection map[string][]string

// Toggle flips membership of option in the given dimension. For Price it
// replaces the current choice, or clears the dimension when option is
// already the sole selected value. For all other dimensions it adds the
// option when absent and removes it when present.
func (s Selection) Toggle(dimension, option string) {
	if dimension == DimensionPrice {
		if len(s[dimension]) == 1 && s[dimension][0] == option {
			delete(s, dimension)
			return
		}
		s[dimension] = []string{option}
		return
	}

	opts := s[dimension]
	if i := slices.Index(opts, option); i >= 0 {
		opts = slices.Delete(opts, i, i+1)
		if len(opts) == 0 {
			delete(s, dimension)
			return
		}
		s[dimension] = opts
		return
	}
	s[dimension] = append(opts, option)
}

// Has reports whether option is selected in the given dimension.
func (s Selection) Has(dimension, option string) bool {
	return slices.Contains(s[dimension], option)
}

// Empty reports whether no dimension has a selected option.
func (s Selection) Empty() bool {
	for _, opts := range s {
		if len(opts) > 0 {
			return false
		}
	}
	return true
}

// Dimensions returns the selection's non-empty dimension names in sorted
// order, so serialized forms are deterministic.
func (s Selection) Dimensions() []string {
	dims := make([]string, 0, len(s))
	for d, opts := range s {
		if len(opts) > 0 {
			dims = append(dims, d)
		}
	}
	sort.Strings(dims)
	return dims
}

// Clone returns a deep copy, so observers can hold a snapshot without
// racing later mutations.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for d, opts := range s {
		out[d] = append([]string(nil), opts...)
	}
	return out
}
