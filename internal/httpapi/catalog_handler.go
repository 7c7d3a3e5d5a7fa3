package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
	"github.com/maryamhelal/yaqeen-storefront/internal/refdata"
)

// CatalogHandler proxies product browsing to the backend and serves shipping
// cities from the reference cache.
type CatalogHandler struct {
	api     *backend.Client
	ref     *refdata.Cache
	timeout time.Duration
}

func NewCatalogHandler(api *backend.Client, ref *refdata.Cache, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{api: api, ref: ref, timeout: timeout}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page := intQuery(r, "page", 1)
	limit := intQuery(r, "limit", 10)
	category := r.URL.Query().Get("category")
	collection := r.URL.Query().Get("collection")

	products, err := h.api.ListProducts(ctx, page, limit, category, collection)
	if err != nil {
		handleBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.api.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cities, err := h.ref.Cities(ctx)
	if err != nil {
		handleBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": cities})
}

func (h *CatalogHandler) CityAreas(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	areas, err := h.ref.Areas(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleBackendError(w, err)
		return
	}
	if areas == nil {
		respondError(w, http.StatusNotFound, "not_found", "unknown city")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": areas})
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tags, err := h.ref.Categories(ctx)
	if err != nil {
		handleBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

func (h *CatalogHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tags, err := h.ref.Collections(ctx)
	if err != nil {
		handleBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

func intQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
