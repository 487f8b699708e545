package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("saree")
	assert.True(t, ok)
	assert.Equal(t, CategorySaree, c)

	_, ok = ParseCategory("Saree")
	assert.False(t, ok, "category identifiers are case sensitive")

	_, ok = ParseCategory("footwear")
	assert.False(t, ok)
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Bridal Couture", CategoryBridal.Label())
	assert.Equal(t, "Kurtis", CategoryKurti.Label())

	// Values outside the closed set get the generic label, never the raw
	// identifier.
	assert.Equal(t, "Collection", Category("footwear").Label())
	assert.Equal(t, "Collection", Category("").Label())
}

func TestEffectivePrice(t *testing.T) {
	p := Product{Price: dec("2499"), SalePrice: dec("1999")}
	assert.True(t, p.EffectivePrice().Equal(dec("1999")))

	p.SalePrice = dec("0")
	assert.True(t, p.EffectivePrice().Equal(dec("2499")))
}
