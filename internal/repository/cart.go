package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/cart"
)

const (
	getCartSQL = `SELECT product_id, quantity FROM cart_items
		WHERE user_id = $1 ORDER BY updated_at, product_id`

	addCartDeltaSQL = `INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO UPDATE SET
			quantity = cart_items.quantity + EXCLUDED.quantity,
			updated_at = now()`

	setCartQuantitySQL = `UPDATE cart_items SET quantity = $3, updated_at = now()
		WHERE user_id = $1 AND product_id = $2`

	removeCartLineSQL = `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`

	clearCartSQL = `DELETE FROM cart_items WHERE user_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Get loads the user's cart. A user with no lines gets an empty cart, not an
// error.
func (r *CartRepository) Get(ctx context.Context, userID string) (*cart.Cart, error) {
	rows, err := r.pool.Query(ctx, getCartSQL, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "get cart for user %q", userID)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.Line, error) {
		var l cart.Line
		err := row.Scan(&l.ProductID, &l.Quantity)
		return l, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scan cart for user %q", userID)
	}

	return &cart.Cart{UserID: userID, Items: items}, nil
}

// AddDelta adds delta to the line's quantity, creating the line when absent.
func (r *CartRepository) AddDelta(ctx context.Context, userID, productID string, delta int) error {
	if _, err := r.pool.Exec(ctx, addCartDeltaSQL, userID, productID, delta); err != nil {
		return errors.Wrapf(err, "add %d of %q to cart", delta, productID)
	}
	return nil
}

// SetQuantity replaces the line's quantity.
func (r *CartRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	tag, err := r.pool.Exec(ctx, setCartQuantitySQL, userID, productID, quantity)
	if err != nil {
		return errors.Wrapf(err, "set quantity of %q", productID)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

// Remove deletes the line.
func (r *CartRepository) Remove(ctx context.Context, userID, productID string) error {
	tag, err := r.pool.Exec(ctx, removeCartLineSQL, userID, productID)
	if err != nil {
		return errors.Wrapf(err, "remove %q from cart", productID)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

// Clear deletes every line in the user's cart.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, clearCartSQL, userID); err != nil {
		return errors.Wrapf(err, "clear cart for user %q", userID)
	}
	return nil
}
