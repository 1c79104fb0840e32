package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"optics-shop/internal/app"
	"optics-shop/internal/core"
	"optics-shop/internal/export"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeServiceError maps an application error onto an HTTP status and code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound), errors.Is(err, export.ErrTaskNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrValidationIncomplete):
		writeError(w, r, err.Error(), "VALIDATION_INCOMPLETE", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrInvalidQuantity):
		writeError(w, r, err.Error(), "INVALID_QUANTITY", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrInvalidStatus):
		writeError(w, r, err.Error(), "INVALID_STATUS", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, export.ErrUnsupportedFormat):
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	case errors.Is(err, app.ErrExportNotReady):
		writeError(w, r, err.Error(), "EXPORT_NOT_READY", http.StatusConflict)
	case errors.Is(err, core.ErrPersistenceUnavailable):
		writeError(w, r, err.Error(), "PERSISTENCE_UNAVAILABLE", http.StatusServiceUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, err.Error(), "TIMEOUT", http.StatusGatewayTimeout)
	default:
		log.Printf("request %s: %v", requestIDFromContext(r.Context()), err)
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus writes a JSON response with the given status.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
