package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/GabRuby/calcTacos/internal/api/dto"
	"github.com/GabRuby/calcTacos/internal/application/service"
)

// SalesHandler handles the daily sales ledger.
type SalesHandler struct {
	*Base
	sales *service.SalesService
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesSvc *service.SalesService, logger *slog.Logger) *SalesHandler {
	return &SalesHandler{
		Base:  NewBase(logger),
		sales: salesSvc,
	}
}

// Daily handles GET /api/sales/daily?date=YYYY-MM-DD. Without a date it
// reports the current business day.
func (h *SalesHandler) Daily(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sales.Daily(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

// Dates handles GET /api/sales/dates.
func (h *SalesHandler) Dates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.sales.Dates(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.DatesResponse{Dates: dates})
}

// Export handles GET /api/sales/daily/export - downloads the day as JSON.
func (h *SalesHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.sales.Export(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles POST /api/sales/daily/import - merges an exported day.
func (h *SalesHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("could not read request body"))
		return
	}

	result, err := h.sales.Import(r.Context(), data)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
