// Package httpapi is the local HTTP surface the web UI talks to: cart and
// checkout state plus thin catalog passthroughs to the backend.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
	"github.com/maryamhelal/yaqeen-storefront/internal/checkout"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleBackendError maps a backend client failure to a local response. API
// errors keep the backend's status and message; anything else (transport,
// decode) is a 502.
func handleBackendError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		respondError(w, apiErr.Status, codeForStatus(apiErr.Status), apiErr.Message)
		return
	}
	respondError(w, http.StatusBadGateway, "backend_unavailable", "backend request failed")
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_argument"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "permission_denied"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "already_exists"
	case http.StatusTooManyRequests:
		return "rate_limit_exceeded"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	case http.StatusGatewayTimeout:
		return "timeout"
	default:
		return "backend_error"
	}
}

// handleCheckoutError maps the session's validation errors onto 400s; empty
// carts are 409 so the UI can redirect home.
func handleCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrMissingContact),
		errors.Is(err, checkout.ErrMissingPassword),
		errors.Is(err, checkout.ErrPasswordTooShort),
		errors.Is(err, checkout.ErrPasswordMismatch),
		errors.Is(err, checkout.ErrUnknownCity):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, checkout.ErrRegistrationFailed):
		respondError(w, http.StatusBadGateway, "registration_failed", err.Error())
	case errors.Is(err, checkout.ErrNoOrderInResponse):
		respondError(w, http.StatusBadGateway, "no_confirmation", err.Error())
	default:
		handleBackendError(w, err)
	}
}
