package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/product"
)

// ErrInvalidQuantity is returned when a mutation carries a non-positive
// quantity.
var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// StockExceededError indicates that adding the requested quantity would push
// a cart line past the product's available stock.
type StockExceededError struct {
	ProductID  string
	TotalStock int
	Held       int
}

func (e *StockExceededError) Error() string {
	if addable := e.TotalStock - e.Held; addable > 0 {
		return fmt.Sprintf("only %d more of product %s can be added", addable, e.ProductID)
	}
	return fmt.Sprintf("all %d of product %s already in cart", e.Held, e.ProductID)
}

// MaxAddable returns how many more units can still be added, floored at zero.
func (e *StockExceededError) MaxAddable() int {
	if addable := e.TotalStock - e.Held; addable > 0 {
		return addable
	}
	return 0
}

const (
	prefilterCapacity = 1 << 20
	prefilterFPR      = 0.001
)

// Service owns cart mutations and enforces the stock ceiling: a line's
// quantity never exceeds the product's total stock, regardless of what the
// client asked for.
type Service struct {
	carts    Repository
	products product.Repository

	// known is a bloom filter over catalog product IDs, used to reject adds
	// for IDs that are definitely not in the catalog without a database
	// round-trip. False positives fall through to the catalog lookup.
	mu    sync.RWMutex
	known *bloom.BloomFilter
}

// NewService creates a cart Service. Call WarmPrefilter before serving
// traffic to populate the product-ID prefilter; until then every add hits
// the catalog.
func NewService(carts Repository, products product.Repository) *Service {
	return &Service{
		carts:    carts,
		products: products,
	}
}

// WarmPrefilter rebuilds the product-ID bloom filter from the catalog. It is
// safe to call periodically; lookups during the rebuild use the previous
// filter.
func (s *Service) WarmPrefilter(ctx context.Context) error {
	ids, err := s.products.ListIDs(ctx)
	if err != nil {
		return errors.Wrap(err, "list product ids")
	}

	f := bloom.NewWithEstimates(prefilterCapacity, prefilterFPR)
	for _, id := range ids {
		f.AddString(id)
	}

	s.mu.Lock()
	s.known = f
	s.mu.Unlock()
	return nil
}

// definitelyUnknown reports whether the prefilter can prove the product ID is
// not in the catalog. An unwarmed filter proves nothing.
func (s *Service) definitelyUnknown(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.known != nil && !s.known.TestString(id)
}

// Add increases the user's cart line for productID by delta, creating the
// line when absent. It returns *StockExceededError when the prospective
// quantity would exceed the product's stock, and product.ErrNotFound for IDs
// outside the catalog.
func (s *Service) Add(ctx context.Context, userID, productID string, delta int) error {
	if delta <= 0 {
		return ErrInvalidQuantity
	}
	if s.definitelyUnknown(productID) {
		return product.ErrNotFound
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return errors.Wrap(err, "lookup product")
	}

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "load cart")
	}

	held := c.Quantity(productID)
	if held+delta > p.TotalStock {
		return &StockExceededError{
			ProductID:  productID,
			TotalStock: p.TotalStock,
			Held:       held,
		}
	}

	if err := s.carts.AddDelta(ctx, userID, productID, delta); err != nil {
		return errors.Wrap(err, "add cart line")
	}
	return nil
}

// SetQuantity replaces the quantity of an existing cart line. The stock
// ceiling applies to the absolute quantity.
func (s *Service) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return errors.Wrap(err, "lookup product")
	}

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "load cart")
	}
	if c.Quantity(productID) == 0 {
		return ErrLineNotFound
	}

	if quantity > p.TotalStock {
		return &StockExceededError{
			ProductID:  productID,
			TotalStock: p.TotalStock,
			Held:       c.Quantity(productID),
		}
	}

	if err := s.carts.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return errors.Wrap(err, "set cart line quantity")
	}
	return nil
}

// Clear removes every line from the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.carts.Clear(ctx, userID); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

// Remove deletes a cart line.
func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	if err := s.carts.Remove(ctx, userID, productID); err != nil {
		return errors.Wrap(err, "remove cart line")
	}
	return nil
}

// Detailed returns the user's cart joined with the catalog fields the
// storefront renders. Lines whose product has disappeared from the catalog
// are dropped from the view rather than failing the whole read.
func (s *Service) Detailed(ctx context.Context, userID string) ([]DetailedLine, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if len(c.Items) == 0 {
		return []DetailedLine{}, nil
	}

	ids := make([]string, len(c.Items))
	for i, l := range c.Items {
		ids[i] = l.ProductID
	}

	prods, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "load cart products")
	}
	byID := make(map[string]product.Product, len(prods))
	for _, p := range prods {
		byID[p.ID] = p
	}

	out := make([]DetailedLine, 0, len(c.Items))
	for _, l := range c.Items {
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		img := ""
		if len(p.Images) > 0 {
			img = p.Images[0]
		}
		out = append(out, DetailedLine{
			ProductID: p.ID,
			Title:     p.Title,
			Image:     img,
			Price:     p.Price,
			SalePrice: p.SalePrice,
			Quantity:  l.Quantity,
		})
	}
	return out, nil
}
