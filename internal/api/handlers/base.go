package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GabRuby/calcTacos/internal/api/dto"
	"github.com/GabRuby/calcTacos/internal/application/service"
	"github.com/GabRuby/calcTacos/internal/domain/splitbill"
)

// maxBodyBytes caps JSON request bodies. Sales imports get more room.
const (
	maxBodyBytes   = 1 << 20
	maxImportBytes = 10 << 20
)

// Base provides shared functionality for all handlers.
type Base struct {
	logger *slog.Logger
}

// NewBase creates a new base handler that logs unexpected errors to logger.
func NewBase(logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.Default()
	}
	return &Base{logger: logger}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// DecodeJSON reads a JSON request body into v.
func (b *Base) DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// WriteServiceError maps an error from the service layer to a response.
func (b *Base) WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var rejection *splitbill.Rejection
	switch {
	case errors.As(err, &rejection):
		b.WriteError(w, http.StatusUnprocessableEntity, dto.RejectionError(rejection))
	case errors.Is(err, service.ErrTableNotFound):
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError("table"))
	case errors.Is(err, service.ErrMenuItemNotFound):
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError("menu item"))
	case errors.Is(err, service.ErrNoSession):
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError("split session"))
	case errors.Is(err, service.ErrInvalidInput):
		b.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrSessionHasPayments),
		errors.Is(err, service.ErrTableOccupied),
		errors.Is(err, service.ErrSplitInProgress):
		b.WriteError(w, http.StatusConflict, dto.ConflictError(err.Error()))
	default:
		b.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		b.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	}
}
