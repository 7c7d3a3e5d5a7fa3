package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
	"github.com/maryamhelal/yaqeen-storefront/internal/cart"
)

// productFetcher is the slice of the backend client the cart handler needs;
// adding a line requires the live product to resolve price and stock.
type productFetcher interface {
	GetProduct(ctx context.Context, id string) (*backend.Product, error)
}

type CartHandler struct {
	store    *cart.Store
	products productFetcher
	timeout  time.Duration
}

func NewCartHandler(store *cart.Store, products productFetcher, timeout time.Duration) *CartHandler {
	return &CartHandler{
		store:    store,
		products: products,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	ProductID string `json:"product_id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type CartResponseDTO struct {
	Items    []cart.Line `json:"items"`
	Subtotal float64     `json:"subtotal"`
}

func (h *CartHandler) cartResponse() CartResponseDTO {
	lines := h.store.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return CartResponseDTO{Items: lines, Subtotal: h.store.Subtotal()}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Color == "" || req.Size == "" {
		respondError(w, http.StatusBadRequest, "invalid_variant", "color and size are required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		handleBackendError(w, err)
		return
	}

	h.store.Add(*product, req.Quantity, req.Color, req.Size)
	respondJSON(w, http.StatusCreated, h.cartResponse())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" || req.Color == "" || req.Size == "" {
		respondError(w, http.StatusBadRequest, "invalid_variant", "product_id, color and size are required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// Clamp here: the store overwrites as told.
	for _, l := range h.store.Lines() {
		if l.Matches(req.ProductID, req.Color, req.Size) {
			h.store.UpdateQuantity(req.ProductID, req.Color, req.Size, min(req.Quantity, l.MaxQuantity))
			respondJSON(w, http.StatusOK, h.cartResponse())
			return
		}
	}
	respondError(w, http.StatusNotFound, "not_found", "no such cart line")
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product_id")
	color := r.URL.Query().Get("color")
	size := r.URL.Query().Get("size")
	if productID == "" || color == "" || size == "" {
		respondError(w, http.StatusBadRequest, "invalid_variant", "product_id, color and size are required")
		return
	}

	h.store.Remove(productID, color, size)
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	respondJSON(w, http.StatusOK, h.cartResponse())
}
