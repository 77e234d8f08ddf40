package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RohitKonga/cake-haven/internal/domain/catalog"
	"github.com/RohitKonga/cake-haven/internal/media"
)

type cakeView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Ingredients []string  `json:"ingredients"`
	Price       float64   `json:"price"`
	Discount    float64   `json:"discount"`
	Categories  []string  `json:"categories"`
	ImageURL    string    `json:"imageUrl"`
	Flavor      string    `json:"flavor"`
	Type        string    `json:"type"`
	Popularity  int       `json:"popularity"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCakeView(c *catalog.Cake) cakeView {
	ingredients := c.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	categories := c.Categories
	if categories == nil {
		categories = []string{}
	}
	return cakeView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Ingredients: ingredients,
		Price:       c.Price.InexactFloat64(),
		Discount:    c.Discount.InexactFloat64(),
		Categories:  categories,
		ImageURL:    c.ImageURL,
		Flavor:      c.Flavor,
		Type:        c.Type,
		Popularity:  c.Popularity,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

type cakeRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Price       *float64 `json:"price"`
	Discount    *float64 `json:"discount"`
	Categories  []string `json:"categories"`
	Flavor      *string  `json:"flavor"`
	Type        *string  `json:"type"`
	Popularity  *int     `json:"popularity"`
	IsActive    *bool    `json:"isActive"`
}

// ListCakes returns the active catalog filtered by the query string.
func (h *Handler) ListCakes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := catalog.Filter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Flavor:   q.Get("flavor"),
		Type:     q.Get("type"),
		Sort:     catalog.ParseSortKey(q.Get("sort")),
	}
	if v := q.Get("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid minPrice")
			return
		}
		f.MinPrice = &d
	}
	if v := q.Get("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid maxPrice")
			return
		}
		f.MaxPrice = &d
	}

	cakes, err := h.cakes.List(r.Context(), f)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]cakeView, len(cakes))
	for i := range cakes {
		out[i] = toCakeView(&cakes[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCake returns a single cake by id, active or not.
func (h *Handler) GetCake(w http.ResponseWriter, r *http.Request) {
	c, err := h.cakes.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCakeView(c))
}

// CreateCake adds a new catalog entry.
func (h *Handler) CreateCake(w http.ResponseWriter, r *http.Request) {
	var req cakeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(strings.TrimSpace(req.Name)) < 2 {
		writeError(w, http.StatusBadRequest, "name must be at least 2 characters")
		return
	}
	if req.Price == nil || *req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "price must be greater than 0")
		return
	}

	discount := decimal.Zero
	if req.Discount != nil {
		if *req.Discount < 0 || *req.Discount > 100 {
			writeError(w, http.StatusBadRequest, "discount must be between 0 and 100")
			return
		}
		discount = decimal.NewFromFloat(*req.Discount)
	}

	c := &catalog.Cake{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Ingredients: req.Ingredients,
		Price:       decimal.NewFromFloat(*req.Price),
		Discount:    discount,
		Categories:  req.Categories,
		Popularity:  0,
		IsActive:    true,
	}
	if req.Flavor != nil {
		c.Flavor = *req.Flavor
	}
	if req.Type != nil {
		c.Type = *req.Type
	}
	if req.Popularity != nil {
		c.Popularity = *req.Popularity
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := h.cakes.Create(r.Context(), c); err != nil {
		writeDomainError(w, r, err)
		return
	}

	created, err := h.cakes.GetByID(r.Context(), c.ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCakeView(created))
}

// UpdateCake patches the provided cake fields.
func (h *Handler) UpdateCake(w http.ResponseWriter, r *http.Request) {
	var req cakeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u := catalog.Update{
		Ingredients: req.Ingredients,
		Categories:  req.Categories,
		Flavor:      req.Flavor,
		Type:        req.Type,
		Popularity:  req.Popularity,
		IsActive:    req.IsActive,
	}
	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		u.Name = &name
	}
	if req.Description != "" {
		u.Description = &req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			writeError(w, http.StatusBadRequest, "price must be greater than 0")
			return
		}
		price := decimal.NewFromFloat(*req.Price)
		u.Price = &price
	}
	if req.Discount != nil {
		if *req.Discount < 0 || *req.Discount > 100 {
			writeError(w, http.StatusBadRequest, "discount must be between 0 and 100")
			return
		}
		discount := decimal.NewFromFloat(*req.Discount)
		u.Discount = &discount
	}

	c, err := h.cakes.Update(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCakeView(c))
}

// DeleteCake removes a cake and, best effort, its media asset.
func (h *Handler) DeleteCake(w http.ResponseWriter, r *http.Request) {
	c, err := h.cakes.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if h.images != nil && c.ImageID != "" {
		if err := h.images.Destroy(r.Context(), c.ImageID); err != nil {
			zctx.From(r.Context()).Warn("Failed to delete cake asset",
				zap.String("public_id", c.ImageID), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// UploadCakeImage stores a cake photo on the media host and records it.
func (h *Handler) UploadCakeImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.cakes.GetByID(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	asset, err := h.receiveImage(w, r, media.FolderCakes)
	if err != nil {
		return // receiveImage already wrote the response
	}

	c, err := h.cakes.SetImage(r.Context(), id, asset.URL, asset.PublicID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": c.ImageURL})
}

// receiveImage reads the multipart "image" field and uploads it to the media
// host. On failure it writes the error response and returns a non-nil error.
func (h *Handler) receiveImage(w http.ResponseWriter, r *http.Request, folder string) (*media.Asset, error) {
	if h.images == nil {
		writeDomainError(w, r, media.ErrNotConfigured)
		return nil, media.ErrNotConfigured
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file required")
		return nil, err
	}
	defer file.Close()

	asset, err := h.images.Upload(r.Context(), file, folder)
	if err != nil {
		zctx.From(r.Context()).Error("Image upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "upload failed")
		return nil, err
	}
	return asset, nil
}
