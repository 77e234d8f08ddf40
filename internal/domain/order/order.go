package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status tracks an order through fulfillment. Transitions are restricted to
// the table in CanTransition; Delivered and Cancelled are terminal.
type Status string

const (
	StatusPending        Status = "Pending"
	StatusPreparing      Status = "Preparing"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

// ParseStatus validates a status string against the closed enumeration.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusPreparing, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

var transitions = map[Status][]Status{
	StatusPending:        {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentMethod is the free payment tag carried on an order. There is no
// gateway integration behind it.
type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentMock PaymentMethod = "MOCK"
)

// ParsePaymentMethod maps the request value to a PaymentMethod, defaulting
// an empty value to COD.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case "":
		return PaymentCOD, true
	case PaymentCOD, PaymentMock:
		return PaymentMethod(s), true
	}
	return "", false
}

// Sentinel errors for order validation.
var (
	ErrNotFound       = errors.New("order not found")
	ErrEmptyItems     = errors.New("items required")
	ErrInvalidPayment = errors.New("unsupported payment method")
)

// InvalidCakeError indicates a requested cake id does not resolve to a
// catalog record. The whole order is rejected; nothing is persisted.
type InvalidCakeError struct {
	CakeID string
}

func (e *InvalidCakeError) Error() string {
	return "invalid cake " + e.CakeID
}

// InvalidStatusError indicates a status string outside the enumeration.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return "unknown order status " + e.Status
}

// InvalidTransitionError indicates a legal status that the order cannot
// move to from its current state.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return "cannot transition order from " + string(e.From) + " to " + string(e.To)
}

// LineItem is one priced entry within an order. Name and Price are frozen at
// order-creation time and never re-derived from the catalog. CakeID is nil
// for custom cake lines.
type LineItem struct {
	CakeID   *string         `json:"cakeId,omitempty"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Order is an immutable snapshot of priced line items plus delivery and
// payment metadata. Only Status changes after creation.
type Order struct {
	ID            string
	UserID        string
	Items         []LineItem
	Address       string
	PaymentMethod PaymentMethod
	Total         decimal.Decimal
	Status        Status
	CreatedAt     time.Time
}

// Repository defines persistence operations for orders.
//
// SetStatus applies the status change only if the order's current status
// still matches expected, returning the updated order or ErrNotFound when
// the conditional update does not apply.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	SetStatus(ctx context.Context, id string, expected, next Status) (*Order, error)
}
