package web

import (
	"encoding/json"
	"net/http"

	"github.com/blackforge/storefront/pkg/fault"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps error kinds to HTTP status codes. Message text never
// influences the status.
func statusFor(err error) int {
	switch fault.KindOf(err) {
	case fault.NotFound:
		return http.StatusNotFound
	case fault.Validation, fault.DynamicPricingRequired:
		return http.StatusBadRequest
	case fault.Conflict:
		return http.StatusConflict
	case fault.PaymentNotConfirmed:
		return http.StatusPaymentRequired
	case fault.TokenInvalid, fault.TokenExpired, fault.Unauthorized:
		return http.StatusUnauthorized
	case fault.TokenMismatch, fault.Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("request failed")
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fault.New(fault.Validation, "invalid request body")
	}
	return nil
}
