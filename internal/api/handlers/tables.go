package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GabRuby/calcTacos/internal/api/dto"
	"github.com/GabRuby/calcTacos/internal/application/service"
	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage"
)

// TablesHandler handles dining table requests.
type TablesHandler struct {
	*Base
	tables *service.TableService
	menu   *service.MenuService
}

// NewTablesHandler creates a new tables handler.
func NewTablesHandler(tables *service.TableService, menuSvc *service.MenuService, logger *slog.Logger) *TablesHandler {
	return &TablesHandler{
		Base:   NewBase(logger),
		tables: tables,
		menu:   menuSvc,
	}
}

// List handles GET /api/tables - returns every table with its order total.
func (h *TablesHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.List(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	catalog, err := h.menu.Catalog(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	response := dto.TableListResponse{
		Tables: make([]dto.TableResponse, 0, len(tables)),
		Count:  len(tables),
	}
	for _, table := range tables {
		response.Tables = append(response.Tables, dto.NewTableResponse(table, menu.CalculateTotal(table.Order, catalog)))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Create handles POST /api/tables - adds a table with the next number.
func (h *TablesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTableRequest
	if err := h.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	table, err := h.tables.Create(r.Context(), req.Name)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.writeTable(w, r, http.StatusCreated, table)
}

// Get handles GET /api/tables/{id}.
func (h *TablesHandler) Get(w http.ResponseWriter, r *http.Request) {
	table, err := h.tables.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.writeTable(w, r, http.StatusOK, table)
}

// Delete handles DELETE /api/tables/{id}. Occupied tables cannot be removed.
func (h *TablesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tables.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Start handles POST /api/tables/{id}/start - opens an empty order.
func (h *TablesHandler) Start(w http.ResponseWriter, r *http.Request) {
	table, err := h.tables.StartOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.writeTable(w, r, http.StatusOK, table)
}

// UpdateOrder handles PUT /api/tables/{id}/order - replaces the order lines.
func (h *TablesHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateOrderRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	table, err := h.tables.UpdateOrder(r.Context(), chi.URLParam(r, "id"), req.Items)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.writeTable(w, r, http.StatusOK, table)
}

// Update handles PATCH /api/tables/{id} - edits name, customer and notes.
func (h *TablesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTableRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	info := service.TableInfo{
		Name:         req.Name,
		CustomerName: req.CustomerName,
		Observations: req.Observations,
	}
	table, err := h.tables.UpdateInfo(r.Context(), chi.URLParam(r, "id"), info)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.writeTable(w, r, http.StatusOK, table)
}

// Release handles POST /api/tables/{id}/release - frees the table and
// drops any open split.
func (h *TablesHandler) Release(w http.ResponseWriter, r *http.Request) {
	table, err := h.tables.Release(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.writeTable(w, r, http.StatusOK, table)
}

func (h *TablesHandler) writeTable(w http.ResponseWriter, r *http.Request, status int, table *storage.Table) {
	total, err := h.tables.OrderTotal(r.Context(), table)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, status, dto.NewTableResponse(table, total))
}
