package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrLineNotFound is returned when a cart line for the given product does
// not exist.
var ErrLineNotFound = errors.New("cart line not found")

// Line is a single product entry in a user's cart.
type Line struct {
	ProductID string
	Quantity  int
}

// Cart holds every line a user currently has in their cart.
type Cart struct {
	UserID string
	Items  []Line
}

// Quantity returns the held quantity for the given product, or zero when the
// product is not in the cart.
func (c *Cart) Quantity(productID string) int {
	for _, l := range c.Items {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// DetailedLine is a cart line joined with the catalog data the storefront
// renders next to it.
type DetailedLine struct {
	ProductID string
	Title     string
	Image     string
	Price     decimal.Decimal
	SalePrice decimal.Decimal
	Quantity  int
}

// Repository defines cart persistence operations. AddDelta adds to an
// existing line's quantity (creating the line when absent); SetQuantity
// replaces it.
type Repository interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	AddDelta(ctx context.Context, userID, productID string, delta int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}
