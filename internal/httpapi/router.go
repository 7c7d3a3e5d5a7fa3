package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the storefront surface. The UI consumes everything under
// /api/v1; /health is for probes.
func NewRouter(cartH *CartHandler, checkoutH *CheckoutHandler, catalogH *CatalogHandler, timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))
	r.Use(BearerTokenMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartH.GetCart)
			r.Delete("/", cartH.ClearCart)
			r.Post("/items", cartH.AddItem)
			r.Put("/items", cartH.UpdateQuantity)
			r.Delete("/items", cartH.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/quote", checkoutH.GetQuote)
			r.Post("/city", checkoutH.SelectCity)
			r.Post("/promocode", checkoutH.ApplyPromocode)
			r.Post("/order", checkoutH.PlaceOrder)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogH.ListProducts)
			r.Get("/{id}", catalogH.GetProduct)
		})

		r.Route("/cities", func(r chi.Router) {
			r.Get("/", catalogH.ListCities)
			r.Get("/{id}/areas", catalogH.CityAreas)
		})

		r.Get("/categories", catalogH.ListCategories)
		r.Get("/collections", catalogH.ListCollections)
	})

	return r
}
