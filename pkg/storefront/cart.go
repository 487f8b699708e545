package storefront

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// CartAPI is the slice of Client the reconciler needs.
type CartAPI interface {
	GetCart(ctx context.Context, userID string) ([]CartLine, error)
	AddToCart(ctx context.Context, userID, productID string, delta int) error
}

// AddOutcome reports how an add attempt resolved. A rejected add never
// reached the network; Message carries the user-facing explanation.
type AddOutcome struct {
	Accepted   bool
	Message    string
	MaxAddable int
}

// CartReconciler keeps a local view of one user's cart consistent with the
// backend. Adds are validated against the product's stock ceiling before
// any request is sent, and every accepted mutation is followed by an
// authoritative refetch: the local view is always the backend's answer,
// never a locally incremented guess. Mutations are serialized per product
// so two rapid adds of the same item cannot interleave their
// validate-mutate-refetch cycles.
type CartReconciler struct {
	api    CartAPI
	lg     *zap.Logger
	userID string

	mu    sync.Mutex
	lines map[string]CartLine

	lineMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func NewCartReconciler(api CartAPI, userID string, lg *zap.Logger) *CartReconciler {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &CartReconciler{
		api:    api,
		lg:     lg,
		userID: userID,
		lines:  make(map[string]CartLine),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Refresh replaces the local view with the backend's authoritative cart.
func (r *CartReconciler) Refresh(ctx context.Context) error {
	lines, err := r.api.GetCart(ctx, r.userID)
	if err != nil {
		return errors.Wrap(err, "fetch cart")
	}
	next := make(map[string]CartLine, len(lines))
	for _, l := range lines {
		next[l.ProductID] = l
	}
	r.mu.Lock()
	r.lines = next
	r.mu.Unlock()
	return nil
}

// Quantity returns the locally known quantity for a product, zero when the
// product is not in the cart.
func (r *CartReconciler) Quantity(productID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lines[productID].Quantity
}

// Lines returns a snapshot of the current cart view.
func (r *CartReconciler) Lines() []CartLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CartLine, 0, len(r.lines))
	for _, l := range r.lines {
		out = append(out, l)
	}
	return out
}

// Add attempts to add delta units of a product whose stock ceiling is
// totalStock. When the held quantity plus delta would exceed the ceiling
// the add is rejected locally with a message stating how many more units
// can still be added; no request is sent and the cart is unchanged. An
// accepted add posts the delta and refetches the authoritative cart.
func (r *CartReconciler) Add(ctx context.Context, productID string, delta, totalStock int) (AddOutcome, error) {
	if delta <= 0 {
		return AddOutcome{}, errors.Errorf("quantity delta must be positive, got %d", delta)
	}

	lock := r.lineLock(productID)
	lock.Lock()
	defer lock.Unlock()

	held := r.Quantity(productID)
	if held+delta > totalStock {
		addable := totalStock - held
		if addable < 0 {
			addable = 0
		}
		return AddOutcome{
			Accepted:   false,
			Message:    rejectionMessage(held, addable),
			MaxAddable: addable,
		}, nil
	}

	if err := r.api.AddToCart(ctx, r.userID, productID, delta); err != nil {
		return AddOutcome{}, errors.Wrap(err, "add to cart")
	}
	if err := r.Refresh(ctx); err != nil {
		// The mutation landed; the stale local view heals on the next
		// successful refresh.
		r.lg.Warn("cart refetch after add failed", zap.Error(err))
	}
	return AddOutcome{Accepted: true}, nil
}

func (r *CartReconciler) lineLock(productID string) *sync.Mutex {
	r.lineMu.Lock()
	defer r.lineMu.Unlock()
	lock, ok := r.locks[productID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[productID] = lock
	}
	return lock
}

func rejectionMessage(held, addable int) string {
	if addable == 0 {
		return fmt.Sprintf("only %d quantity can be added for this item", held)
	}
	return fmt.Sprintf("only %d more can be added for this item", addable)
}
