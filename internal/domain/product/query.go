package product

// SortKey enumerates the supported catalog sort orders. The values match the
// sortBy query parameter on the wire.
type SortKey string

const (
	SortPriceLowToHigh SortKey = "price-lowtohigh"
	SortPriceHighToLow SortKey = "price-hightolow"
	SortTitleAToZ      SortKey = "title-atoz"
	SortTitleZToA      SortKey = "title-ztoa"
)

// ParseSortKey maps a raw sortBy value to a SortKey. It returns false for
// values outside the enumeration.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortPriceLowToHigh, SortPriceHighToLow, SortTitleAToZ, SortTitleZToA:
		return SortKey(s), true
	}
	return "", false
}

// PriceBucket identifies a fixed price range facet. Buckets are half-open:
// low <= price < high, except the top bucket which has no upper bound.
type PriceBucket string

const (
	PriceUnder1000  PriceBucket = "under_1000"
	Price1000To2000 PriceBucket = "1000_to_2000"
	Price2000To5000 PriceBucket = "2000_to_5000"
	PriceAbove5000  PriceBucket = "above_5000"
)

// Bounds returns the bucket's price range. bounded is false for the open-ended
// top bucket, in which case high is meaningless.
func (b PriceBucket) Bounds() (low, high int64, bounded bool) {
	switch b {
	case PriceUnder1000:
		return 0, 1000, true
	case Price1000To2000:
		return 1000, 2000, true
	case Price2000To5000:
		return 2000, 5000, true
	case PriceAbove5000:
		return 5000, 0, false
	}
	return 0, 0, false
}

// ParsePriceBucket maps a raw identifier to a PriceBucket. It returns false
// for unknown identifiers.
func ParsePriceBucket(s string) (PriceBucket, bool) {
	switch PriceBucket(s) {
	case PriceUnder1000, Price1000To2000, Price2000To5000, PriceAbove5000:
		return PriceBucket(s), true
	}
	return "", false
}

// Query describes a faceted catalog search. Dimensions combine with AND
// semantics; values within a dimension combine with OR.
type Query struct {
	Categories   []Category
	PriceBuckets []PriceBucket
	Sort         SortKey
	Page         int
	PageSize     int
}

// Pagination describes the page window of a search result.
type Pagination struct {
	CurrentPage   int
	TotalPages    int
	TotalProducts int
	HasNext       bool
	HasPrev       bool
}

// Page holds one page of catalog search results.
type Page struct {
	Items      []Product
	Pagination Pagination
}
