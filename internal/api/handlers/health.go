package handlers

import (
	"net/http"

	"github.com/GabRuby/calcTacos/internal/api/dto"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	*Base
	openSplits func() int
}

// NewHealthHandler creates a new health handler. openSplits reports how many
// split sessions are in progress; nil reports zero.
func NewHealthHandler(openSplits func() int) *HealthHandler {
	if openSplits == nil {
		openSplits = func() int { return 0 }
	}
	return &HealthHandler{Base: NewBase(nil), openSplits: openSplits}
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := dto.NewHealthResponse()
	response.OpenSplits = h.openSplits()
	h.WriteJSON(w, http.StatusOK, response)
}
