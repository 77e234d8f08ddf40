package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RohitKonga/cake-haven/internal/domain/coupon"
)

type couponView struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Discount  float64    `json:"discount"`
	IsActive  bool       `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toCouponView(c *coupon.Coupon) couponView {
	return couponView{
		ID:        c.ID,
		Code:      c.Code,
		Discount:  c.Discount.InexactFloat64(),
		IsActive:  c.IsActive,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
	}
}

// ValidateCoupon checks a code and returns its discount percentage.
func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	c, err := h.coupons.Validate(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":     c.Code,
		"discount": c.Discount.InexactFloat64(),
	})
}

// ListCoupons returns every coupon for the admin console.
func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.admin.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]couponView, len(coupons))
	for i := range coupons {
		out[i] = toCouponView(&coupons[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type createCouponRequest struct {
	Code      string     `json:"code"`
	Discount  *float64   `json:"discount"`
	IsActive  *bool      `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// CreateCoupon adds a percentage discount code. Codes are stored uppercase.
func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}
	if req.Discount == nil || *req.Discount <= 0 || *req.Discount > 100 {
		writeError(w, http.StatusBadRequest, "discount must be between 0 and 100")
		return
	}

	c := &coupon.Coupon{
		ID:        uuid.New().String(),
		Code:      code,
		Discount:  decimal.NewFromFloat(*req.Discount),
		IsActive:  true,
		ExpiresAt: req.ExpiresAt,
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := h.admin.Create(r.Context(), c); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCouponView(c))
}

type updateCouponRequest struct {
	Discount  *float64   `json:"discount"`
	IsActive  *bool      `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// UpdateCoupon patches a coupon's discount, activity flag, or expiry.
func (h *Handler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var req updateCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u := coupon.Update{
		IsActive:  req.IsActive,
		ExpiresAt: req.ExpiresAt,
	}
	if req.Discount != nil {
		if *req.Discount <= 0 || *req.Discount > 100 {
			writeError(w, http.StatusBadRequest, "discount must be between 0 and 100")
			return
		}
		d := decimal.NewFromFloat(*req.Discount)
		u.Discount = &d
	}

	c, err := h.admin.Update(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCouponView(c))
}

// DeleteCoupon removes a coupon. Deleting an absent coupon succeeds.
func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
