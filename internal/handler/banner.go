package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/RohitKonga/cake-haven/internal/domain/banner"
	"github.com/RohitKonga/cake-haven/internal/media"
)

type bannerView struct {
	ID        string    `json:"id"`
	Slot      int       `json:"slot"`
	ImageURL  string    `json:"imageUrl"`
	Title     string    `json:"title,omitempty"`
	Subtitle  string    `json:"subtitle,omitempty"`
	OfferText string    `json:"offerText,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func toBannerView(b *banner.Banner) bannerView {
	return bannerView{
		ID:        b.ID,
		Slot:      b.Slot,
		ImageURL:  b.ImageURL,
		Title:     b.Title,
		Subtitle:  b.Subtitle,
		OfferText: b.OfferText,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
	}
}

// ActiveBanners returns the homepage banners in slot order.
func (h *Handler) ActiveBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.banners.ListActive(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBannerViews(banners))
}

// AllBanners returns every banner for the admin console.
func (h *Handler) AllBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.banners.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBannerViews(banners))
}

// UploadBanner publishes a new banner into a slot from a multipart form with
// an "image" file plus slot and copy fields. The slot's previous occupant is
// replaced.
func (h *Handler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	asset, err := h.receiveImage(w, r, media.FolderBanners)
	if err != nil {
		return
	}

	slot, err := strconv.Atoi(r.FormValue("slot"))
	if err != nil {
		h.discardAsset(r, asset)
		writeDomainError(w, r, banner.ErrInvalidSlot)
		return
	}

	b, err := h.banners.Publish(r.Context(), banner.PublishRequest{
		Slot:      slot,
		Asset:     *asset,
		Title:     r.FormValue("title"),
		Subtitle:  r.FormValue("subtitle"),
		OfferText: r.FormValue("offerText"),
	})
	if err != nil {
		h.discardAsset(r, asset)
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBannerView(b))
}

// DeleteBanner removes a banner and frees its slot.
func (h *Handler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	if err := h.banners.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// discardAsset removes an uploaded asset after a failed publish, best effort.
func (h *Handler) discardAsset(r *http.Request, asset *media.Asset) {
	if h.images == nil || asset == nil || asset.PublicID == "" {
		return
	}
	if err := h.images.Destroy(r.Context(), asset.PublicID); err != nil {
		zctx.From(r.Context()).Warn("Failed to discard uploaded asset",
			zap.String("public_id", asset.PublicID), zap.Error(err))
	}
}

func toBannerViews(banners []banner.Banner) []bannerView {
	out := make([]bannerView, len(banners))
	for i := range banners {
		out[i] = toBannerView(&banners[i])
	}
	return out
}
