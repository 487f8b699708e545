package product

// Category is a closed enumeration of the catalog's product categories.
// Unknown values coming from storage or requests fall back to an explicit
// "Collection" label rather than being echoed verbatim.
type Category string

const (
	CategoryBridal      Category = "bridal"
	CategorySaree       Category = "saree"
	CategoryLehenga     Category = "lehenga"
	CategoryGown        Category = "gown"
	CategoryKurti       Category = "kurti"
	CategoryAccessories Category = "accessories"
)

var categoryLabels = map[Category]string{
	CategoryBridal:      "Bridal Couture",
	CategorySaree:       "Sarees",
	CategoryLehenga:     "Lehengas",
	CategoryGown:        "Gowns",
	CategoryKurti:       "Kurtis",
	CategoryAccessories: "Accessories",
}

// ParseCategory maps a raw identifier to a known Category. It returns false
// for identifiers outside the closed set.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	_, ok := categoryLabels[c]
	return c, ok
}

// Known reports whether the category is part of the closed set.
func (c Category) Known() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label for the category, or "Collection" for
// values outside the closed set.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return "Collection"
}
