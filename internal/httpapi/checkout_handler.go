package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/maryamhelal/yaqeen-storefront/internal/checkout"
)

type CheckoutHandler struct {
	session *checkout.Session
	timeout time.Duration
}

func NewCheckoutHandler(session *checkout.Session, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{session: session, timeout: timeout}
}

type SelectCityRequestDTO struct {
	CityID string `json:"city_id"`
}

type ApplyPromocodeRequestDTO struct {
	Code string `json:"code"`
}

type QuoteResponseDTO struct {
	Quote checkout.Quote      `json:"quote"`
	City  string              `json:"city,omitempty"`
	Promo checkout.PromoState `json:"promo"`
}

func (h *CheckoutHandler) quoteResponse() QuoteResponseDTO {
	resp := QuoteResponseDTO{
		Quote: h.session.Quote(),
		Promo: h.session.Promo(),
	}
	if city := h.session.City(); city != nil {
		resp.City = city.Name
	}
	return resp
}

// GetQuote prices the current cart; an optional city query parameter selects
// the shipping city first.
func (h *CheckoutHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if cityID := r.URL.Query().Get("city"); cityID != "" {
		if err := h.session.SelectCity(ctx, cityID); err != nil {
			handleCheckoutError(w, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, h.quoteResponse())
}

func (h *CheckoutHandler) SelectCity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SelectCityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CityID == "" {
		respondError(w, http.StatusBadRequest, "invalid_city", "city_id is required")
		return
	}

	if err := h.session.SelectCity(ctx, req.CityID); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.quoteResponse())
}

// ApplyPromocode validates the code against the current cart. An invalid code
// is still a 200: the quote stands without the discount and the message tells
// the shopper why.
func (h *CheckoutHandler) ApplyPromocode(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ApplyPromocodeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	h.session.ApplyPromocode(ctx, req.Code)
	respondJSON(w, http.StatusOK, h.quoteResponse())
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var form checkout.OrderForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	form.Token = getToken(r.Context())

	order, err := h.session.PlaceOrder(ctx, form)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"order": order})
}
