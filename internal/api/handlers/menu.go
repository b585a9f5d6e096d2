package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GabRuby/calcTacos/internal/api/dto"
	"github.com/GabRuby/calcTacos/internal/application/service"
)

// MenuHandler handles catalog requests.
type MenuHandler struct {
	*Base
	menu *service.MenuService
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(menuSvc *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		Base: NewBase(logger),
		menu: menuSvc,
	}
}

// List handles GET /api/menu - returns the whole catalog.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.MenuListResponse{Items: items, Count: len(items)})
}

// Put handles PUT /api/menu/{id} - creates or replaces an item.
func (h *MenuHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req dto.MenuItemRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	item := req.ToItem(chi.URLParam(r, "id"))
	if err := h.menu.Save(r.Context(), item); err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/menu/{id}.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
