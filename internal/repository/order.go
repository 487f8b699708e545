package repository

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, user_id, items, total, status)
		VALUES ($1, $2, $3, $4, $5)`

	listOrdersByUserSQL = `SELECT id, user_id, items, total, status, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items are serialized to JSON for the JSONB column.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return errors.Wrap(err, "marshal order items")
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, itemsJSON, o.Total, string(o.Status),
	)
	if err != nil {
		return errors.Wrapf(err, "create order %q", o.ID)
	}
	return nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "list orders for user %q", userID)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Order, error) {
		var (
			o      order.Order
			items  []byte
			status string
		)
		if err := row.Scan(&o.ID, &o.UserID, &items, &o.Total, &status, &o.CreatedAt); err != nil {
			return o, err
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return o, errors.Wrapf(err, "unmarshal items of order %q", o.ID)
		}
		o.Status = order.Status(status)
		return o, nil
	})
}
