package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/RohitKonga/cake-haven/internal/domain/order"
)

type orderItemView struct {
	CakeID   *string `json:"cakeId,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type orderView struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Items         []orderItemView `json:"items"`
	Address       string          `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
	Total         float64         `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toOrderView(o *order.Order) orderView {
	items := make([]orderItemView, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemView{
			CakeID:   it.CakeID,
			Name:     it.Name,
			Price:    it.Price.InexactFloat64(),
			Quantity: it.Quantity,
		}
	}
	return orderView{
		ID:            o.ID,
		UserID:        o.UserID,
		Items:         items,
		Address:       o.Address,
		PaymentMethod: string(o.PaymentMethod),
		Total:         o.Total.InexactFloat64(),
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}

type createOrderRequest struct {
	Items []struct {
		CakeID string `json:"cakeId"`
		// Quantity is accepted as a JSON number and truncated toward zero,
		// so 3.7 means 3. Missing or sub-1 values are raised to 1 downstream.
		Quantity *float64 `json:"quantity"`
	} `json:"items"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
}

// CreateOrder prices the submitted cart server-side and persists the order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(strings.TrimSpace(req.Address)) < 5 {
		writeError(w, http.StatusBadRequest, "address must be at least 5 characters")
		return
	}

	items := make([]order.CartItem, len(req.Items))
	for i, it := range req.Items {
		qty := 1
		if it.Quantity != nil {
			qty = int(*it.Quantity)
		}
		items[i] = order.CartItem{CakeID: it.CakeID, Quantity: qty}
	}

	o, err := h.orders.PlaceCartOrder(r.Context(), order.PlaceCartOrderRequest{
		UserID:        id.UserID,
		Items:         items,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderView(o))
}

type createCustomOrderRequest struct {
	RequestID     string `json:"requestId"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
}

// CreateCustomOrder turns an approved custom request into an order at the
// admin-assigned price.
func (h *Handler) CreateCustomOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req createCustomOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.RequestID == "" {
		writeError(w, http.StatusBadRequest, "requestId required")
		return
	}
	if len(strings.TrimSpace(req.Address)) < 5 {
		writeError(w, http.StatusBadRequest, "address must be at least 5 characters")
		return
	}

	o, err := h.orders.PlaceCustomOrder(r.Context(), order.PlaceCustomOrderRequest{
		UserID:        id.UserID,
		RequestID:     req.RequestID,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderView(o))
}

// MyOrders returns the caller's order history, newest first.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	orders, err := h.orders.ListMine(r.Context(), id.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderViews(orders))
}

// AllOrders returns every order for the admin console.
func (h *Handler) AllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderViews(orders))
}

// UpdateOrderStatus moves an order along the fulfillment pipeline.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(o))
}

func toOrderViews(orders []order.Order) []orderView {
	out := make([]orderView, len(orders))
	for i := range orders {
		out[i] = toOrderView(&orders[i])
	}
	return out
}
