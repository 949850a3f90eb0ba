package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"invoicegate/internal/invoice"
	"invoicegate/internal/platform/sentinel"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError centralizes error translation to HTTP responses so every handler
// returns the same JSON error envelope. Business-rule failures never reach
// here: they are successful responses with approved=false.
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)

	body := map[string]string{"error": code}
	// Internal faults omit the description so implementation details stay out
	// of responses.
	if status != http.StatusInternalServerError {
		body["error_description"] = err.Error()
	}
	writeJSON(w, status, body)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, invoice.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, sentinel.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, sentinel.ErrInvalidState):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, sentinel.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, invoice.ErrExtractionUnavailable):
		return http.StatusServiceUnavailable, "extraction_unavailable"
	case errors.Is(err, sentinel.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}
