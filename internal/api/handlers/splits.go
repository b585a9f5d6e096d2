package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GabRuby/calcTacos/internal/api/dto"
	"github.com/GabRuby/calcTacos/internal/application/service"
	"github.com/GabRuby/calcTacos/internal/domain/payment"
	"github.com/GabRuby/calcTacos/internal/domain/splitbill"
)

// SplitsHandler handles the split-bill flow of a table.
type SplitsHandler struct {
	*Base
	splits *service.SplitService
}

// NewSplitsHandler creates a new splits handler.
func NewSplitsHandler(splits *service.SplitService, logger *slog.Logger) *SplitsHandler {
	return &SplitsHandler{
		Base:   NewBase(logger),
		splits: splits,
	}
}

func tableID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func tabParam(r *http.Request) splitbill.Tab {
	return splitbill.Tab(chi.URLParam(r, "tab"))
}

func (h *SplitsHandler) writeView(w http.ResponseWriter, r *http.Request, status int, view splitbill.View, err error) {
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, status, view)
}

// Open handles POST /api/tables/{id}/split - starts or resumes the split.
func (h *SplitsHandler) Open(w http.ResponseWriter, r *http.Request) {
	view, err := h.splits.Open(r.Context(), tableID(r))
	h.writeView(w, r, http.StatusOK, view, err)
}

// Get handles GET /api/tables/{id}/split.
func (h *SplitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.splits.View(tableID(r))
	h.writeView(w, r, http.StatusOK, view, err)
}

// Discard handles DELETE /api/tables/{id}/split.
func (h *SplitsHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.splits.Discard(tableID(r)); err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTab handles POST /api/tables/{id}/split/tabs.
func (h *SplitsHandler) AddTab(w http.ResponseWriter, r *http.Request) {
	view, err := h.splits.Apply(tableID(r), splitbill.AddTabCommand{})
	h.writeView(w, r, http.StatusCreated, view, err)
}

// Allocate handles PUT /api/tables/{id}/split/tabs/{tab}/items/{itemID}.
// Quantities above what is still unassigned are clamped, not refused.
func (h *SplitsHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req dto.AllocationRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	tab, itemID := tabParam(r), chi.URLParam(r, "itemID")
	var cmd splitbill.Command
	switch {
	case req.Quantity != nil && req.Amount == nil:
		cmd = splitbill.SetQuantityCommand{Tab: tab, ItemID: itemID, Quantity: *req.Quantity}
	case req.Amount != nil && req.Quantity == nil:
		cmd = splitbill.SetAmountCommand{Tab: tab, ItemID: itemID, Amount: *req.Amount}
	default:
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("exactly one of quantity or amount is required"))
		return
	}

	view, err := h.splits.Apply(tableID(r), cmd)
	h.writeView(w, r, http.StatusOK, view, err)
}

// SetPayment handles PUT /api/tables/{id}/split/tabs/{tab}/payment.
// A mixed payment answers with the cash change owed.
func (h *SplitsHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	if method == payment.Mixed {
		entry := payment.MixedEntry{Cash: req.Cash, Transfer: req.Transfer, Card: req.Card}
		change, view, err := h.splits.EnterMixedPayment(tableID(r), tabParam(r), entry)
		if err != nil {
			h.WriteServiceError(w, r, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, dto.MixedPaymentResponse{Change: change, Split: view})
		return
	}

	view, err := h.splits.Apply(tableID(r), splitbill.SelectPaymentCommand{Tab: tabParam(r), Method: method})
	h.writeView(w, r, http.StatusOK, view, err)
}

// Pay handles POST /api/tables/{id}/split/tabs/{tab}/pay.
func (h *SplitsHandler) Pay(w http.ResponseWriter, r *http.Request) {
	view, err := h.splits.Apply(tableID(r), splitbill.PayCommand{Tab: tabParam(r)})
	h.writeView(w, r, http.StatusOK, view, err)
}

// TabReceipt handles GET /api/tables/{id}/split/tabs/{tab}/receipt.
func (h *SplitsHandler) TabReceipt(w http.ResponseWriter, r *http.Request) {
	tab := tabParam(r)
	text, err := h.splits.Receipt(tableID(r), tab)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.ReceiptResponse{Tab: tab.String(), Text: text})
}

// Receipt handles GET /api/tables/{id}/split/receipt.
func (h *SplitsHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	text, err := h.splits.AccountReceipt(tableID(r))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.ReceiptResponse{Text: text})
}

// Close handles POST /api/tables/{id}/split/close - records the sale and
// releases the table.
func (h *SplitsHandler) Close(w http.ResponseWriter, r *http.Request) {
	result, err := h.splits.Close(r.Context(), tableID(r))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
