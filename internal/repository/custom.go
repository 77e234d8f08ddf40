package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/RohitKonga/cake-haven/internal/domain/custom"
)

const customColumns = `id, user_id, shape, flavor, weight, theme, message,
	image_url, image_public_id, status, custom_price, created_at`

var _ custom.Repository = (*CustomRequestRepository)(nil)

// CustomRequestRepository implements custom.Repository backed by PostgreSQL.
type CustomRequestRepository struct {
	pool *pgxpool.Pool
}

// NewCustomRequestRepository returns a CustomRequestRepository that uses the
// given pool.
func NewCustomRequestRepository(pool *pgxpool.Pool) *CustomRequestRepository {
	return &CustomRequestRepository{pool: pool}
}

// Create persists a new custom request.
func (r *CustomRequestRepository) Create(ctx context.Context, req *custom.Request) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO custom_requests
		(id, user_id, shape, flavor, weight, theme, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.UserID, req.Shape, req.Flavor, req.Weight,
		req.Theme, req.Message, req.Status,
	)
	if err != nil {
		return fmt.Errorf("creating custom request %q: %w", req.ID, err)
	}
	return nil
}

// GetByID returns a single custom request by its identifier.
func (r *CustomRequestRepository) GetByID(ctx context.Context, id string) (*custom.Request, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+customColumns+" FROM custom_requests WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("getting custom request %q: %w", id, err)
	}

	req, err := pgx.CollectExactlyOneRow(rows, scanCustomRequest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom.ErrNotFound
		}
		return nil, fmt.Errorf("getting custom request %q: %w", id, err)
	}
	return &req, nil
}

// ListByUser returns a user's custom requests, newest first.
func (r *CustomRequestRepository) ListByUser(ctx context.Context, userID string) ([]custom.Request, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+customColumns+" FROM custom_requests WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("listing custom requests for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanCustomRequest)
}

// ListAll returns every custom request, newest first.
func (r *CustomRequestRepository) ListAll(ctx context.Context) ([]custom.Request, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+customColumns+" FROM custom_requests ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing custom requests: %w", err)
	}
	return pgx.CollectRows(rows, scanCustomRequest)
}

// Review records an admin decision and price.
func (r *CustomRequestRepository) Review(ctx context.Context, id string, status custom.Status, price *decimal.Decimal) (*custom.Request, error) {
	rows, err := r.pool.Query(ctx,
		"UPDATE custom_requests SET status = $2, custom_price = $3 WHERE id = $1 RETURNING "+customColumns,
		id, status, price)
	if err != nil {
		return nil, fmt.Errorf("reviewing custom request %q: %w", id, err)
	}

	req, err := pgx.CollectExactlyOneRow(rows, scanCustomRequest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom.ErrNotFound
		}
		return nil, fmt.Errorf("reviewing custom request %q: %w", id, err)
	}
	return &req, nil
}

// ConsumeApproved atomically moves an Approved request to Ordered. The WHERE
// clause carries the expected status, so of two racing calls only one can
// observe a row change.
func (r *CustomRequestRepository) ConsumeApproved(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		"UPDATE custom_requests SET status = $3 WHERE id = $1 AND status = $2",
		id, custom.StatusApproved, custom.StatusOrdered)
	if err != nil {
		return false, fmt.Errorf("consuming custom request %q: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetImage records an uploaded image on the request.
func (r *CustomRequestRepository) SetImage(ctx context.Context, id, url, publicID string) (*custom.Request, error) {
	rows, err := r.pool.Query(ctx,
		"UPDATE custom_requests SET image_url = $2, image_public_id = $3 WHERE id = $1 RETURNING "+customColumns,
		id, url, publicID)
	if err != nil {
		return nil, fmt.Errorf("setting custom request image %q: %w", id, err)
	}

	req, err := pgx.CollectExactlyOneRow(rows, scanCustomRequest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom.ErrNotFound
		}
		return nil, fmt.Errorf("setting custom request image %q: %w", id, err)
	}
	return &req, nil
}

func scanCustomRequest(row pgx.CollectableRow) (custom.Request, error) {
	var req custom.Request
	err := row.Scan(
		&req.ID, &req.UserID, &req.Shape, &req.Flavor, &req.Weight,
		&req.Theme, &req.Message, &req.ImageURL, &req.ImageID,
		&req.Status, &req.Price, &req.CreatedAt,
	)
	return req, err
}
