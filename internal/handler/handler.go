// Package handler exposes the storefront and admin REST API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RohitKonga/cake-haven/internal/domain/auth"
	"github.com/RohitKonga/cake-haven/internal/domain/banner"
	"github.com/RohitKonga/cake-haven/internal/domain/catalog"
	"github.com/RohitKonga/cake-haven/internal/domain/coupon"
	"github.com/RohitKonga/cake-haven/internal/domain/custom"
	"github.com/RohitKonga/cake-haven/internal/domain/order"
	"github.com/RohitKonga/cake-haven/internal/domain/user"
	"github.com/RohitKonga/cake-haven/internal/media"
)

// maxImageSize caps uploaded image bodies at 5 MiB.
const maxImageSize = 5 << 20

// Handler holds the domain dependencies for all HTTP endpoints and maps
// request/response JSON to domain calls.
type Handler struct {
	tokens  *auth.Tokens
	users   *user.Service
	cakes   catalog.Repository
	orders  *order.Service
	customs *custom.Service
	coupons coupon.Validator
	admin   coupon.Repository
	banners *banner.Service
	images  media.Uploader
}

// NewHandler constructs a Handler. images may be nil when no media host is
// configured; upload endpoints then fail per-request.
func NewHandler(
	tokens *auth.Tokens,
	users *user.Service,
	cakes catalog.Repository,
	orders *order.Service,
	customs *custom.Service,
	coupons coupon.Validator,
	couponAdmin coupon.Repository,
	banners *banner.Service,
	images media.Uploader,
) *Handler {
	return &Handler{
		tokens:  tokens,
		users:   users,
		cakes:   cakes,
		orders:  orders,
		customs: customs,
		coupons: coupons,
		admin:   couponAdmin,
		banners: banners,
		images:  images,
	}
}

// Routes assembles the /api route tree.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/me", h.Me)
			r.Put("/me/addresses", h.SaveAddresses)
		})
	})

	r.Route("/cakes", func(r chi.Router) {
		r.Get("/", h.ListCakes)
		r.Get("/{id}", h.GetCake)
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth, h.RequireAdmin)
			r.Post("/", h.CreateCake)
			r.Patch("/{id}", h.UpdateCake)
			r.Delete("/{id}", h.DeleteCake)
			r.Post("/{id}/image", h.UploadCakeImage)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Post("/", h.CreateOrder)
		r.Post("/custom", h.CreateCustomOrder)
		r.Get("/me", h.MyOrders)
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Get("/", h.AllOrders)
			r.Patch("/{id}/status", h.UpdateOrderStatus)
		})
	})

	r.Route("/custom", func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Post("/", h.CreateCustomRequest)
		r.Post("/{id}/image", h.UploadCustomImage)
		r.Get("/me", h.MyCustomRequests)
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Get("/", h.AllCustomRequests)
			r.Patch("/{id}/review", h.ReviewCustomRequest)
		})
	})

	r.Route("/coupons", func(r chi.Router) {
		r.Get("/validate/{code}", h.ValidateCoupon)
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequireAuth, h.RequireAdmin)
			r.Get("/", h.ListCoupons)
			r.Post("/", h.CreateCoupon)
			r.Patch("/{id}", h.UpdateCoupon)
			r.Delete("/{id}", h.DeleteCoupon)
		})
	})

	r.Route("/banners", func(r chi.Router) {
		r.Get("/", h.ActiveBanners)
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequireAuth, h.RequireAdmin)
			r.Get("/", h.AllBanners)
			r.Post("/", h.UploadBanner)
			r.Delete("/{id}", h.DeleteBanner)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireAuth, h.RequireAdmin)
		r.Get("/users", h.ListUsers)
	})

	return r
}
