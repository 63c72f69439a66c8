package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/bookmood/internal/cart"
	"github.com/fjod/bookmood/internal/catalog"
	"github.com/fjod/bookmood/internal/logger"
	"github.com/fjod/bookmood/internal/mood"
	"github.com/fjod/bookmood/internal/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError maps domain and storage errors to HTTP statuses. Anything
// unrecognised is logged and reported as a 500.
func handleError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	var (
		status int
		code   string
	)

	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		status, code = http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, cart.ErrInvalidBook):
		status, code = http.StatusBadRequest, "invalid_book_id"
	case errors.Is(err, cart.ErrEmptyCart):
		status, code = http.StatusBadRequest, "empty_cart"
	case errors.Is(err, mood.ErrInvalidMood):
		status, code = http.StatusBadRequest, "invalid_mood"
	case errors.Is(err, catalog.ErrBookNotFound):
		status, code = http.StatusNotFound, "book_not_found"
	case errors.Is(err, storage.ErrUnavailable):
		status, code = http.StatusServiceUnavailable, "storage_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "timeout"
	default:
		log.WithContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondError(w, status, code, err.Error())
}
