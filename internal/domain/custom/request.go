package custom

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status tracks a custom cake request through its review workflow.
// Rejected and Ordered are terminal.
type Status string

const (
	StatusRequested Status = "Requested"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusOrdered   Status = "Ordered"
)

var (
	// ErrNotFound is returned when a custom request does not exist.
	ErrNotFound = errors.New("custom request not found")
	// ErrNotOwner is returned when a user acts on another user's request.
	ErrNotOwner = errors.New("custom request belongs to another user")
	// ErrNotApproved is returned when a request is consumed in any state
	// other than Approved, including a request that was already ordered.
	ErrNotApproved = errors.New("custom request is not approved")
	// ErrNoPriceSet is returned when an approved request has no admin price.
	ErrNoPriceSet = errors.New("custom request has no price set")
	// ErrInvalidReviewStatus is returned when a review carries a status
	// outside the Approved/Rejected pair.
	ErrInvalidReviewStatus = errors.New("review status must be Approved or Rejected")
)

// Request is a buyer-submitted bespoke cake specification. Price is assigned
// by an admin during review and is nil until then.
type Request struct {
	ID        string
	UserID    string
	Shape     string
	Flavor    string
	Weight    string
	Theme     string
	Message   string
	ImageURL  string
	ImageID   string
	Status    Status
	Price     *decimal.Decimal
	CreatedAt time.Time
}

// Repository defines persistence operations for custom cake requests.
//
// ConsumeApproved is the atomic Approved->Ordered transition used when a
// request is converted into an order. It must apply the status change only
// if the current status is exactly Approved, and report whether it did.
type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	ListByUser(ctx context.Context, userID string) ([]Request, error)
	ListAll(ctx context.Context) ([]Request, error)
	Review(ctx context.Context, id string, status Status, price *decimal.Decimal) (*Request, error)
	ConsumeApproved(ctx context.Context, id string) (bool, error)
	SetImage(ctx context.Context, id, url, publicID string) (*Request, error)
}
