package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RohitKonga/cake-haven/internal/domain/catalog"
	"github.com/RohitKonga/cake-haven/internal/domain/custom"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// round2 rounds to 2 decimal places, half away from zero. All inputs here
// are non-negative, so ties round up: 5.005 -> 5.01.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CartItem is one requested catalog entry in a checkout. Quantity below 1
// is raised to 1; there is no upper bound.
type CartItem struct {
	CakeID   string
	Quantity int
}

// PlaceCartOrderRequest holds the input for a cart checkout. Address length
// is enforced at the HTTP boundary.
type PlaceCartOrderRequest struct {
	UserID        string
	Items         []CartItem
	Address       string
	PaymentMethod string
}

// PlaceCustomOrderRequest holds the input for converting an approved custom
// request into an order.
type PlaceCustomOrderRequest struct {
	UserID        string
	RequestID     string
	Address       string
	PaymentMethod string
}

// Service is the pricing engine. Prices and discounts always come from the
// catalog or the admin-reviewed custom request, never from client input.
type Service struct {
	cakes    catalog.Repository
	requests custom.Repository
	orders   Repository
}

// NewService creates an order Service with the required domain dependencies.
func NewService(cakes catalog.Repository, requests custom.Repository, orders Repository) *Service {
	return &Service{
		cakes:    cakes,
		requests: requests,
		orders:   orders,
	}
}

// PlaceCartOrder recomputes trusted prices for the requested cakes, persists
// an order snapshot, and returns it. The operation is all-or-nothing: any
// unresolvable cake id fails the whole order before anything is written.
//
// Per-line unit prices are rounded to the cent, and the aggregate total is
// rounded again. The two rounding stages are deliberate: stored totals were
// produced this way and must stay bit-for-bit reproducible.
func (s *Service) PlaceCartOrder(ctx context.Context, req PlaceCartOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	payment, ok := ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, ErrInvalidPayment
	}

	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.CakeID
	}

	fetched, err := s.cakes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get cakes: %w", err)
	}

	cakeByID := make(map[string]catalog.Cake, len(fetched))
	for _, c := range fetched {
		cakeByID[c.ID] = c
	}

	// Build frozen line items in input order.
	lines := make([]LineItem, len(req.Items))
	total := decimal.Zero
	for i, item := range req.Items {
		c, ok := cakeByID[item.CakeID]
		if !ok {
			return nil, &InvalidCakeError{CakeID: item.CakeID}
		}

		unit := round2(c.Price.Mul(one.Sub(c.Discount.Div(hundred))))

		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		cakeID := c.ID
		lines[i] = LineItem{
			CakeID:   &cakeID,
			Name:     c.Name,
			Price:    unit,
			Quantity: qty,
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(qty))))
	}

	o := &Order{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Items:         lines,
		Address:       req.Address,
		PaymentMethod: payment,
		Total:         round2(total),
		Status:        StatusPending,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return o, nil
}

// PlaceCustomOrder converts an approved custom request into a single-line
// order priced at the admin-assigned amount. The Approved->Ordered status
// change is an atomic conditional update, so two concurrent calls against
// the same request can never both produce an order.
func (s *Service) PlaceCustomOrder(ctx context.Context, req PlaceCustomOrderRequest) (*Order, error) {
	payment, ok := ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, ErrInvalidPayment
	}

	cr, err := s.requests.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}
	if cr.UserID != req.UserID {
		return nil, custom.ErrNotOwner
	}
	if cr.Status != custom.StatusApproved {
		return nil, custom.ErrNotApproved
	}
	if cr.Price == nil {
		return nil, custom.ErrNoPriceSet
	}

	applied, err := s.requests.ConsumeApproved(ctx, req.RequestID)
	if err != nil {
		return nil, errors.Wrap(err, "consume custom request")
	}
	if !applied {
		// Lost the race: someone else ordered or re-reviewed it first.
		return nil, custom.ErrNotApproved
	}

	name := fmt.Sprintf("Custom Cake - %s %s (%s)", cr.Shape, cr.Flavor, cr.Weight)
	o := &Order{
		ID:     uuid.New().String(),
		UserID: req.UserID,
		Items: []LineItem{{
			Name:     name,
			Price:    *cr.Price,
			Quantity: 1,
		}},
		Address:       req.Address,
		PaymentMethod: payment,
		Total:         *cr.Price,
		Status:        StatusPending,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return o, nil
}

// UpdateStatus moves an order to a new fulfillment status. The transition
// must be present in the transition table; the write is conditional on the
// status observed here so concurrent updates cannot skip a step.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	next, ok := ParseStatus(status)
	if !ok {
		return nil, &InvalidStatusError{Status: status}
	}

	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, next) {
		return nil, &InvalidTransitionError{From: o.Status, To: next}
	}

	updated, err := s.orders.SetStatus(ctx, id, o.Status, next)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// The conditional update missed: the status moved underneath us.
			// Report it as an illegal transition from the fresh state.
			if fresh, ferr := s.orders.GetByID(ctx, id); ferr == nil {
				return nil, &InvalidTransitionError{From: fresh.Status, To: next}
			}
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set order status: %w", err)
	}
	return updated, nil
}

// ListMine returns the orders owned by the given user, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListAll returns every order, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.orders.ListAll(ctx)
}
