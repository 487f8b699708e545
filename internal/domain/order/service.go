package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/cart"
)

// ErrEmptyCart is returned when checkout is attempted on a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// CartReader is the slice of the cart service checkout depends on.
type CartReader interface {
	Detailed(ctx context.Context, userID string) ([]cart.DetailedLine, error)
	Clear(ctx context.Context, userID string) error
}

// Service turns a user's cart into a persisted order.
type Service struct {
	orders Repository
	carts  CartReader
}

// NewService creates an order Service.
func NewService(orders Repository, carts CartReader) *Service {
	return &Service{orders: orders, carts: carts}
}

// Checkout snapshots the user's cart into an order, charging the sale price
// where one is active, persists it, and empties the cart. The returned order
// carries the authoritative total.
func (s *Service) Checkout(ctx context.Context, userID string) (*Order, error) {
	lines, err := s.carts.Detailed(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]Item, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		unit := l.Price
		if l.SalePrice.IsPositive() {
			unit = l.SalePrice
		}
		items[i] = Item{
			ProductID: l.ProductID,
			Title:     l.Title,
			Quantity:  l.Quantity,
			Price:     unit,
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	o := &Order{
		ID:     uuid.New().String(),
		UserID: userID,
		Items:  items,
		Total:  total.Round(2),
		Status: StatusPending,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		return nil, errors.Wrap(err, "clear cart")
	}
	return o, nil
}

// History returns the user's orders, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}
