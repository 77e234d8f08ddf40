package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RohitKonga/cake-haven/internal/domain/coupon"
)

const couponColumns = `id, code, discount, is_active, expires_at, created_at`

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindActiveByCode looks up an active coupon by its (already uppercased)
// code. Returns coupon.ErrNotFound when no matching active coupon exists.
func (r *CouponRepository) FindActiveByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE code = $1 AND is_active", code)
	if err != nil {
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}
	return &c, nil
}

// List returns every coupon, newest first.
func (r *CouponRepository) List(ctx context.Context) ([]coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+couponColumns+" FROM coupons ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	return pgx.CollectRows(rows, scanCoupon)
}

// Create persists a new coupon. A duplicate code surfaces as
// coupon.ErrDuplicateCode.
func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO coupons
		(id, code, discount, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Code, c.Discount, c.IsActive, c.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return coupon.ErrDuplicateCode
		}
		return fmt.Errorf("creating coupon %q: %w", c.Code, err)
	}
	return nil
}

// Update applies the non-nil fields of u and returns the updated coupon.
func (r *CouponRepository) Update(ctx context.Context, id string, u coupon.Update) (*coupon.Coupon, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if u.Discount != nil {
		set("discount", *u.Discount)
	}
	if u.IsActive != nil {
		set("is_active", *u.IsActive)
	}
	if u.ExpiresAt != nil {
		set("expires_at", *u.ExpiresAt)
	}
	if len(sets) == 0 {
		rows, err := r.pool.Query(ctx, "SELECT "+couponColumns+" FROM coupons WHERE id = $1", id)
		if err != nil {
			return nil, fmt.Errorf("getting coupon %q: %w", id, err)
		}
		c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, coupon.ErrNotFound
			}
			return nil, fmt.Errorf("getting coupon %q: %w", id, err)
		}
		return &c, nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE coupons SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), couponColumns)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating coupon %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("updating coupon %q: %w", id, err)
	}
	return &c, nil
}

// Delete removes a coupon. Deleting a missing coupon is not an error.
func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM coupons WHERE id = $1", id); err != nil {
		return fmt.Errorf("deleting coupon %q: %w", id, err)
	}
	return nil
}

func scanCoupon(row pgx.CollectableRow) (coupon.Coupon, error) {
	var c coupon.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.Discount, &c.IsActive, &c.ExpiresAt, &c.CreatedAt)
	return c, err
}
