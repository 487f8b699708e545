package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/product"
)

func TestBuildPredicate(t *testing.T) {
	tests := []struct {
		name  string
		query product.Query
		where string
		args  []any
	}{
		{
			name:  "no facets",
			query: product.Query{},
			where: "",
			args:  nil,
		},
		{
			name: "single category",
			query: product.Query{
				Categories: []product.Category{product.CategorySaree},
			},
			where: " WHERE category = ANY($1)",
			args:  []any{[]string{"saree"}},
		},
		{
			name: "multiple categories one placeholder",
			query: product.Query{
				Categories: []product.Category{product.CategoryKurti, product.CategoryGown},
			},
			where: " WHERE category = ANY($1)",
			args:  []any{[]string{"kurti", "gown"}},
		},
		{
			name: "bounded price bucket",
			query: product.Query{
				PriceBuckets: []product.PriceBucket{product.Price1000To2000},
			},
			where: " WHERE ((price >= $1 AND price < $2))",
			args:  []any{int64(1000), int64(2000)},
		},
		{
			name: "open top bucket",
			query: product.Query{
				PriceBuckets: []product.PriceBucket{product.PriceAbove5000},
			},
			where: " WHERE (price >= $1)",
			args:  []any{int64(5000)},
		},
		{
			name: "buckets combine with OR",
			query: product.Query{
				PriceBuckets: []product.PriceBucket{product.PriceUnder1000, product.PriceAbove5000},
			},
			where: " WHERE ((price >= $1 AND price < $2) OR price >= $3)",
			args:  []any{int64(0), int64(1000), int64(5000)},
		},
		{
			name: "dimensions combine with AND",
			query: product.Query{
				Categories:   []product.Category{product.CategoryBridal},
				PriceBuckets: []product.PriceBucket{product.PriceAbove5000},
			},
			where: " WHERE category = ANY($1) AND (price >= $2)",
			args:  []any{[]string{"bridal"}, int64(5000)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildPredicate(tt.query)
			require.Equal(t, tt.where, where)
			require.Equal(t, tt.args, args)
		})
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		sort product.SortKey
		want string
	}{
		{product.SortPriceLowToHigh, "ORDER BY price ASC, id"},
		{product.SortPriceHighToLow, "ORDER BY price DESC, id"},
		{product.SortTitleAToZ, "ORDER BY title ASC, id"},
		{product.SortTitleZToA, "ORDER BY title DESC, id"},
		{"", "ORDER BY price ASC, id"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, orderClause(tt.sort), "sort %q", tt.sort)
	}
}
