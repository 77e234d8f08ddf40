package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RohitKonga/cake-haven/internal/domain/catalog"
	"github.com/RohitKonga/cake-haven/internal/domain/custom"
)

// --- Mock implementations ---

type mockCakeRepo struct {
	byID   map[string]*catalog.Cake
	getErr error
}

func (m *mockCakeRepo) List(_ context.Context, _ catalog.Filter) ([]catalog.Cake, error) {
	return nil, nil
}

func (m *mockCakeRepo) GetByID(_ context.Context, id string) (*catalog.Cake, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return c, nil
}

func (m *mockCakeRepo) GetByIDs(_ context.Context, ids []string) ([]catalog.Cake, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []catalog.Cake
	for _, id := range ids {
		if c, ok := m.byID[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCakeRepo) Create(_ context.Context, _ *catalog.Cake) error { return nil }

func (m *mockCakeRepo) Update(_ context.Context, _ string, _ catalog.Update) (*catalog.Cake, error) {
	return nil, nil
}

func (m *mockCakeRepo) Delete(_ context.Context, _ string) (*catalog.Cake, error) {
	return nil, nil
}

func (m *mockCakeRepo) SetImage(_ context.Context, _, _, _ string) (*catalog.Cake, error) {
	return nil, nil
}

type mockCustomRepo struct {
	byID        map[string]*custom.Request
	consumed    []string
	consumeOK   bool
	consumeErr  error
	getErr      error
	reviewedIDs []string
}

func (m *mockCustomRepo) Create(_ context.Context, _ *custom.Request) error { return nil }

func (m *mockCustomRepo) GetByID(_ context.Context, id string) (*custom.Request, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.byID[id]
	if !ok {
		return nil, custom.ErrNotFound
	}
	return r, nil
}

func (m *mockCustomRepo) ListByUser(_ context.Context, _ string) ([]custom.Request, error) {
	return nil, nil
}

func (m *mockCustomRepo) ListAll(_ context.Context) ([]custom.Request, error) {
	return nil, nil
}

func (m *mockCustomRepo) Review(_ context.Context, id string, _ custom.Status, _ *decimal.Decimal) (*custom.Request, error) {
	m.reviewedIDs = append(m.reviewedIDs, id)
	return m.byID[id], nil
}

func (m *mockCustomRepo) ConsumeApproved(_ context.Context, id string) (bool, error) {
	if m.consumeErr != nil {
		return false, m.consumeErr
	}
	m.consumed = append(m.consumed, id)
	return m.consumeOK, nil
}

func (m *mockCustomRepo) SetImage(_ context.Context, _, _, _ string) (*custom.Request, error) {
	return nil, nil
}

type mockOrderRepo struct {
	lastOrder *Order
	stored    *Order
	setStatus struct {
		expected Status
		next     Status
	}
	createErr error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.lastOrder = o
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	if m.stored == nil || m.stored.ID != id {
		return nil, ErrNotFound
	}
	return m.stored, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, _ string) ([]Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]Order, error) { return nil, nil }

func (m *mockOrderRepo) SetStatus(_ context.Context, id string, expected, next Status) (*Order, error) {
	m.setStatus.expected = expected
	m.setStatus.next = next
	if m.stored == nil || m.stored.ID != id || m.stored.Status != expected {
		return nil, ErrNotFound
	}
	m.stored.Status = next
	return m.stored, nil
}

// --- Helpers ---

func newTestCake(id, name, price, discount string) catalog.Cake {
	return catalog.Cake{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Discount: decimal.RequireFromString(discount),
		IsActive: true,
	}
}

func newCakeRepo(cakes ...catalog.Cake) *mockCakeRepo {
	byID := make(map[string]*catalog.Cake, len(cakes))
	for i := range cakes {
		byID[cakes[i].ID] = &cakes[i]
	}
	return &mockCakeRepo{byID: byID}
}

func approvedRequest(id, userID, price string) *custom.Request {
	p := decimal.RequireFromString(price)
	return &custom.Request{
		ID:     id,
		UserID: userID,
		Shape:  "Heart",
		Flavor: "chocolate",
		Weight: "2kg",
		Status: custom.StatusApproved,
		Price:  &p,
	}
}

// --- Cart orders ---

func TestPlaceCartOrder_EmptyItems(t *testing.T) {
	svc := NewService(newCakeRepo(), &mockCustomRepo{}, &mockOrderRepo{})

	_, err := svc.PlaceCartOrder(context.Background(), PlaceCartOrderRequest{UserID: "u1"})
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestPlaceCartOrder_InvalidPayment(t *testing.T) {
	c1 := newTestCake("c1", "Truffle", "10.00", "0")
	svc := NewService(newCakeRepo(c1), &mockCustomRepo{}, &mockOrderRepo{})

	_, err := svc.PlaceCartOrder(context.Background(), PlaceCartOrderRequest{
		UserID:        "u1",
		Items:         []CartItem{{CakeID: "c1", Quantity: 1}},
		PaymentMethod: "BITCOIN",
	})
	require.ErrorIs(t, err, ErrInvalidPayment)
}

func TestPlaceCartOrder_InvalidCake(t *testing.T) {
	c1 := newTestCake("c1", "Truffle", "10.00", "0")
	orders := &mockOrderRepo{}
	svc := NewService(newCakeRepo(c1), &mockCustomRepo{}, orders)

	_, err := svc.PlaceCartOrder(context.Background(), PlaceCartOrderRequest{
		UserID: "u1",
		Items: []CartItem{
			{CakeID: "c1", Quantity: 1},
			{CakeID: "missing", Quantity: 1},
		},
	})

	var icErr *InvalidCakeError
	require.ErrorAs(t, err, &icErr)
	assert.Equal(t, "missing", icErr.CakeID)
	// All-or-nothing: nothing may be persisted.
	assert.Nil(t, orders.lastOrder)
}

func TestPlaceCartOrder_NoDiscount(t *testing.T) {
	c1 := newTestCake("c1", "Truffle", "24.99", "0")
	orders := &mockOrderRepo{}
	svc := NewService(newCakeRepo(c1), &mockCustomRepo{}, orders)

	o, err := svc.PlaceCartOrder(context.Background(), PlaceCartOrderRequest{
		UserID:  "u1",
		Items:   []CartItem{{CakeID: "c1", Quantity: 3}},
		Address: "1 Test Street",
	})

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("74.97").Equal(o.Total))
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentCOD, o.PaymentMethod)
	require.NotNil(t, orders.lastOrder)
}

func TestPlaceCartOrder_DiscountApplied(t *testing.T) {
	// 20.00 at 10% off = 18.00 per unit, 36.00 total.
	c1 := newTestCake("c1", "Red Velvet", "20.00", "10")
	svc := NewService(newCakeRepo(c1), &mockCustomRepo{}, &mockOrderRepo{})

	o, err := svc.PlaceCartOrder(context.Background(), PlaceCartOrderRequest{
		UserID: "u1",
		Items:  []CartItem{{CakeID: "c1", Quantity: 2}},
	})

	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.True(t, decimal.RequireFromString("18.00").Equal(o.Items[0].Price))
	assert.True(t, decimal.RequireFromString("36.00").Equal(o.Total))
}

func TestPlaceCartOrder_UnitPriceRoundsHalfUp(t *testing.T) {
	// 10.01 at 50% off = 5.005, which rounds up to 5.01 per unit. The line
	// is priced from the rounded unit, not the raw product.
	c1 := newTestCake("c1", "Shortcake", "10.01", "50")
	svc := NewService(newCakeRepo(c1), &mockCustomRepo{}, &mockOrderRepo{})

	o, err := svc.PlaceCartOrder(context.Background(), PlaceCartOrderRequest{
		UserID: "u1",
		Items:  []CartItem{{CakeID: "c1", Quantity: 2}},
	})

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("5.01").Equal(o.Items[0].Price))
	assert.True(t, decimal.RequireFromString("10.02").Equal(o.Total))
}

func TestPlaceCartOrder_QuantityRaisedToOne(t *testing.T) {
	c1 := newTestCake("c1", "Truffle", "10.00", "0")
	svc := NewService(newCakeRepo(c1), &mockCustomRepo{}, &mockOrderRepo{})

	o, err := svc.PlaceCartOrder(context.Background(), PlaceCartOrderRequest{
		UserID: "u1",
		Items:  []CartItem{{CakeID: "c1", Quantity: -3}},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("10.00").Equal(o.Total))
}

func TestPlaceCartOrder_FrozenLineItems(t *testing.T) {
	c1 := newTestCake("c1", "Truffle", "24.99", "0")
	c2 := newTestCake("c2", "Red Velvet", "28.50", "10")
	svc := NewService(newCakeRepo(c1, c2), &mockCustomRepo{}, &mockOrderRepo{})

	o, err := svc.PlaceCartOrder(context.Background(), PlaceCartOrderRequest{
		UserID: "u1",
		Items: []CartItem{
			{CakeID: "c2", Quantity: 1},
			{CakeID: "c1", Quantity: 2},
		},
	})

	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	// Lines keep input order and carry the resolved name and unit price.
	assert.Equal(t, "Red Velvet", o.Items[0].Name)
	require.NotNil(t, o.Items[0].CakeID)
	assert.Equal(t, "c2", *o.Items[0].CakeID)
	assert.True(t, decimal.RequireFromString("25.65").Equal(o.Items[0].Price))
	assert.Equal(t, "Truffle", o.Items[1].Name)
	assert.True(t, decimal.RequireFromString("74.97").Equal(o.Total))
}

func TestPlaceCartOrder_CreateError(t *testing.T) {
	c1 := newTestCake("c1", "Truffle", "10.00", "0")
	svc := NewService(newCakeRepo(c1), &mockCustomRepo{}, &mockOrderRepo{createErr: errors.New("db write failed")})

	_, err := svc.PlaceCartOrder(context.Background(), PlaceCartOrderRequest{
		UserID: "u1",
		Items:  []CartItem{{CakeID: "c1", Quantity: 1}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

// --- Custom orders ---

func TestPlaceCustomOrder_NotFound(t *testing.T) {
	svc := NewService(newCakeRepo(), &mockCustomRepo{byID: map[string]*custom.Request{}}, &mockOrderRepo{})

	_, err := svc.PlaceCustomOrder(context.Background(), PlaceCustomOrderRequest{
		UserID:    "u1",
		RequestID: "missing",
	})
	require.ErrorIs(t, err, custom.ErrNotFound)
}

func TestPlaceCustomOrder_NotOwner(t *testing.T) {
	requests := &mockCustomRepo{byID: map[string]*custom.Request{
		"r1": approvedRequest("r1", "someone-else", "45.00"),
	}}
	svc := NewService(newCakeRepo(), requests, &mockOrderRepo{})

	_, err := svc.PlaceCustomOrder(context.Background(), PlaceCustomOrderRequest{
		UserID:    "u1",
		RequestID: "r1",
	})
	require.ErrorIs(t, err, custom.ErrNotOwner)
}

func TestPlaceCustomOrder_NotApproved(t *testing.T) {
	r := approvedRequest("r1", "u1", "45.00")
	r.Status = custom.StatusRequested
	requests := &mockCustomRepo{byID: map[string]*custom.Request{"r1": r}}
	svc := NewService(newCakeRepo(), requests, &mockOrderRepo{})

	_, err := svc.PlaceCustomOrder(context.Background(), PlaceCustomOrderRequest{
		UserID:    "u1",
		RequestID: "r1",
	})
	require.ErrorIs(t, err, custom.ErrNotApproved)
	// The atomic consume must not run for a request that is visibly not
	// approved.
	assert.Empty(t, requests.consumed)
}

func TestPlaceCustomOrder_NoPriceSet(t *testing.T) {
	r := approvedRequest("r1", "u1", "45.00")
	r.Price = nil
	requests := &mockCustomRepo{byID: map[string]*custom.Request{"r1": r}}
	svc := NewService(newCakeRepo(), requests, &mockOrderRepo{})

	_, err := svc.PlaceCustomOrder(context.Background(), PlaceCustomOrderRequest{
		UserID:    "u1",
		RequestID: "r1",
	})
	require.ErrorIs(t, err, custom.ErrNoPriceSet)
}

func TestPlaceCustomOrder_Success(t *testing.T) {
	requests := &mockCustomRepo{
		byID:      map[string]*custom.Request{"r1": approvedRequest("r1", "u1", "45.00")},
		consumeOK: true,
	}
	orders := &mockOrderRepo{}
	svc := NewService(newCakeRepo(), requests, orders)

	o, err := svc.PlaceCustomOrder(context.Background(), PlaceCustomOrderRequest{
		UserID:    "u1",
		RequestID: "r1",
		Address:   "1 Test Street",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, requests.consumed)
	require.Len(t, o.Items, 1)
	assert.Nil(t, o.Items[0].CakeID)
	assert.Equal(t, "Custom Cake - Heart chocolate (2kg)", o.Items[0].Name)
	assert.Equal(t, 1, o.Items[0].Quantity)
	// Total is exactly the admin-assigned price.
	assert.True(t, decimal.RequireFromString("45.00").Equal(o.Total))
	assert.Equal(t, StatusPending, o.Status)
	require.NotNil(t, orders.lastOrder)
}

func TestPlaceCustomOrder_LostRace(t *testing.T) {
	requests := &mockCustomRepo{
		byID:      map[string]*custom.Request{"r1": approvedRequest("r1", "u1", "45.00")},
		consumeOK: false,
	}
	orders := &mockOrderRepo{}
	svc := NewService(newCakeRepo(), requests, orders)

	_, err := svc.PlaceCustomOrder(context.Background(), PlaceCustomOrderRequest{
		UserID:    "u1",
		RequestID: "r1",
	})

	require.ErrorIs(t, err, custom.ErrNotApproved)
	assert.Nil(t, orders.lastOrder)
}

// --- Status updates ---

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc := NewService(newCakeRepo(), &mockCustomRepo{}, &mockOrderRepo{})

	_, err := svc.UpdateStatus(context.Background(), "o1", "Vanished")

	var isErr *InvalidStatusError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, "Vanished", isErr.Status)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	orders := &mockOrderRepo{stored: &Order{ID: "o1", Status: StatusPending}}
	svc := NewService(newCakeRepo(), &mockCustomRepo{}, orders)

	_, err := svc.UpdateStatus(context.Background(), "o1", string(StatusDelivered))

	var itErr *InvalidTransitionError
	require.ErrorAs(t, err, &itErr)
	assert.Equal(t, StatusPending, itErr.From)
	assert.Equal(t, StatusDelivered, itErr.To)
}

func TestUpdateStatus_TerminalState(t *testing.T) {
	orders := &mockOrderRepo{stored: &Order{ID: "o1", Status: StatusDelivered}}
	svc := NewService(newCakeRepo(), &mockCustomRepo{}, orders)

	_, err := svc.UpdateStatus(context.Background(), "o1", string(StatusCancelled))

	var itErr *InvalidTransitionError
	require.ErrorAs(t, err, &itErr)
}

func TestUpdateStatus_Success(t *testing.T) {
	orders := &mockOrderRepo{stored: &Order{ID: "o1", Status: StatusPending}}
	svc := NewService(newCakeRepo(), &mockCustomRepo{}, orders)

	o, err := svc.UpdateStatus(context.Background(), "o1", string(StatusPreparing))

	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, o.Status)
	// The write must be conditional on the status observed before it.
	assert.Equal(t, StatusPending, orders.setStatus.expected)
	assert.Equal(t, StatusPreparing, orders.setStatus.next)
}

func TestCanTransition_Table(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusPreparing, StatusOutForDelivery, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusPreparing, StatusDelivered, false},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusOutForDelivery, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
