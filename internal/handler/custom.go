package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/RohitKonga/cake-haven/internal/domain/custom"
	"github.com/RohitKonga/cake-haven/internal/media"
)

type customRequestView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Shape     string    `json:"shape"`
	Flavor    string    `json:"flavor"`
	Weight    string    `json:"weight"`
	Theme     string    `json:"theme,omitempty"`
	Message   string    `json:"message,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Status    string    `json:"status"`
	Price     *float64  `json:"price,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCustomRequestView(r *custom.Request) customRequestView {
	v := customRequestView{
		ID:        r.ID,
		UserID:    r.UserID,
		Shape:     r.Shape,
		Flavor:    r.Flavor,
		Weight:    r.Weight,
		Theme:     r.Theme,
		Message:   r.Message,
		ImageURL:  r.ImageURL,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
	if r.Price != nil {
		price := r.Price.InexactFloat64()
		v.Price = &price
	}
	return v
}

type createCustomRequest struct {
	Shape   string `json:"shape"`
	Flavor  string `json:"flavor"`
	Weight  string `json:"weight"`
	Theme   string `json:"theme"`
	Message string `json:"message"`
}

// CreateCustomRequest submits a bespoke cake specification for review.
func (h *Handler) CreateCustomRequest(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req createCustomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Shape) == "" || strings.TrimSpace(req.Flavor) == "" || strings.TrimSpace(req.Weight) == "" {
		writeError(w, http.StatusBadRequest, "shape, flavor, and weight are required")
		return
	}

	cr, err := h.customs.Create(r.Context(), id.UserID, custom.CreateRequest{
		Shape:   strings.TrimSpace(req.Shape),
		Flavor:  strings.TrimSpace(req.Flavor),
		Weight:  strings.TrimSpace(req.Weight),
		Theme:   req.Theme,
		Message: req.Message,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomRequestView(cr))
}

// UploadCustomImage attaches a reference photo to the caller's request.
func (h *Handler) UploadCustomImage(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())
	requestID := chi.URLParam(r, "id")

	if _, err := h.customs.Get(r.Context(), requestID, id.UserID, false); err != nil {
		writeDomainError(w, r, err)
		return
	}

	asset, err := h.receiveImage(w, r, media.FolderCustom)
	if err != nil {
		return
	}

	cr, err := h.customs.AttachImage(r.Context(), requestID, id.UserID, asset.URL, asset.PublicID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomRequestView(cr))
}

// MyCustomRequests returns the caller's requests, newest first.
func (h *Handler) MyCustomRequests(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	requests, err := h.customs.ListMine(r.Context(), id.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomRequestViews(requests))
}

// AllCustomRequests returns every request for the admin console.
func (h *Handler) AllCustomRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.customs.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomRequestViews(requests))
}

type reviewRequest struct {
	Status string   `json:"status"`
	Price  *float64 `json:"price"`
}

// ReviewCustomRequest records an admin decision, with a quoted price on
// approval.
func (h *Handler) ReviewCustomRequest(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := custom.Status(req.Status)
	var price *decimal.Decimal
	if status == custom.StatusApproved {
		if req.Price == nil || *req.Price <= 0 {
			writeError(w, http.StatusBadRequest, "a positive price is required to approve a request")
			return
		}
		p := decimal.NewFromFloat(*req.Price)
		price = &p
	}

	cr, err := h.customs.Review(r.Context(), chi.URLParam(r, "id"), status, price)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomRequestView(cr))
}

func toCustomRequestViews(requests []custom.Request) []customRequestView {
	out := make([]customRequestView, len(requests))
	for i := range requests {
		out[i] = toCustomRequestView(&requests[i])
	}
	return out
}
