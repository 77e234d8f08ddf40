package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RohitKonga/cake-haven/internal/domain/order"
)

const orderColumns = `id, user_id, items, address, payment_method, total, status, created_at`

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. Line items are serialized to JSON for storage
// in the JSONB column; array order preserves input order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO orders
		(id, user_id, items, address, payment_method, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.UserID, itemsJSON, o.Address, o.PaymentMethod, o.Total, o.Status,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListAll returns every order, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// SetStatus conditionally moves an order to the next status. The update
// applies only while the stored status still equals expected; a miss is
// reported as order.ErrNotFound for the caller to disambiguate.
func (r *OrderRepository) SetStatus(ctx context.Context, id string, expected, next order.Status) (*order.Order, error) {
	rows, err := r.pool.Query(ctx,
		"UPDATE orders SET status = $3 WHERE id = $1 AND status = $2 RETURNING "+orderColumns,
		id, expected, next)
	if err != nil {
		return nil, fmt.Errorf("updating order status %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("updating order status %q: %w", id, err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
	)
	err := row.Scan(
		&o.ID, &o.UserID, &itemsJSON, &o.Address,
		&o.PaymentMethod, &o.Total, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling order items: %w", err)
	}
	return o, nil
}
