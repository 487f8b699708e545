package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Image URLs are
// opaque strings supplied by the upload pipeline; the catalog only stores and
// serves them.
type Product struct {
	ID          string
	Title       string
	Description string
	Category    Category
	Price       decimal.Decimal
	SalePrice   decimal.Decimal
	TotalStock  int
	Images      []string
}

// EffectivePrice returns the sale price when one is set, otherwise the
// regular price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.IsPositive() {
		return p.SalePrice
	}
	return p.Price
}

// Repository defines catalog persistence operations.
type Repository interface {
	Search(ctx context.Context, q Query) (*Page, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	ListIDs(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
