// Package handler exposes the storefront REST API.
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/cart"
	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/order"
	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/product"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product responses.
	// When empty, image paths are returned as stored in the database.
	ImageBaseURL string
}

// Handler implements the storefront API, delegating business logic to the
// injected domain services and repositories.
type Handler struct {
	products     product.Repository
	carts        *cart.Service
	orders       *order.Service
	imageBaseURL string
}

// New constructs a Handler with the required domain dependencies.
func New(cfg Config, products product.Repository, carts *cart.Service, orders *order.Service) *Handler {
	return &Handler{
		products:     products,
		carts:        carts,
		orders:       orders,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes mounts the shop and admin route trees. Admin mutations require an
// API key; the caller supplies the middleware so the handler stays free of
// credential handling.
func (h *Handler) Routes(requireAPIKey func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/shop", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{productID}", h.GetProduct)

		r.Get("/cart/{userID}", h.GetCart)
		r.Post("/cart/add", h.AddToCart)
		r.Put("/cart/update", h.UpdateCartLine)
		r.Delete("/cart/{userID}/{productID}", h.RemoveCartLine)

		r.Post("/orders", h.Checkout)
		r.Get("/orders/{userID}", h.ListOrders)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAPIKey)
		r.Post("/products", h.CreateProduct)
		r.Put("/products/{productID}", h.UpdateProduct)
		r.Delete("/products/{productID}", h.DeleteProduct)
	})

	return r
}

// imageURL resolves a stored image path against the configured base URL.
// Paths that already carry a scheme are returned as-is; the upload pipeline
// stores those as opaque absolute URLs.
func (h *Handler) imageURL(path string) string {
	if path == "" || strings.Contains(path, "://") {
		return path
	}
	return h.imageBaseURL + path
}

func isNotFound(err error) bool {
	return errors.Is(err, product.ErrNotFound)
}
