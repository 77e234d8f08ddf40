package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a coupon code does not resolve to an
	// active coupon.
	ErrNotFound = errors.New("invalid coupon code")
	// ErrExpired is returned when a coupon is past its expiry time.
	ErrExpired = errors.New("coupon has expired")
	// ErrDuplicateCode is returned when creating a coupon whose code
	// already exists.
	ErrDuplicateCode = errors.New("coupon code already exists")
)

// Coupon is a percentage discount keyed by an uppercase code.
type Coupon struct {
	ID        string
	Code      string
	Discount  decimal.Decimal
	IsActive  bool
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// Update holds the mutable coupon fields for an admin edit. Nil pointers
// leave the corresponding column untouched.
type Update struct {
	Discount  *decimal.Decimal
	IsActive  *bool
	ExpiresAt *time.Time
}

// Repository defines persistence operations for coupons.
type Repository interface {
	FindActiveByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, id string, u Update) (*Coupon, error)
	Delete(ctx context.Context, id string) error
}
