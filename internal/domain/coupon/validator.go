package coupon

import (
	"context"
	"strings"
	"time"
)

// Validator checks a coupon code and returns the coupon when it is active
// and within its validity window.
type Validator interface {
	Validate(ctx context.Context, code string) (*Coupon, error)
}

// RepoValidator implements Validator by looking up coupons from a Repository.
type RepoValidator struct {
	repo Repository
	now  func() time.Time
}

// NewRepoValidator creates a RepoValidator backed by the given Repository.
func NewRepoValidator(repo Repository) *RepoValidator {
	return &RepoValidator{repo: repo, now: time.Now}
}

// Validate uppercases the code, looks up an active coupon, and rejects
// coupons whose expiry has passed. Coupons without an expiry never expire.
func (v *RepoValidator) Validate(ctx context.Context, code string) (*Coupon, error) {
	c, err := v.repo.FindActiveByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}

	if c.ExpiresAt != nil && c.ExpiresAt.Before(v.now()) {
		return nil, ErrExpired
	}

	return c, nil
}
