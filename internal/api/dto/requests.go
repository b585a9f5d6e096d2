package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
)

// MenuItemRequest is the body of PUT /api/menu/{id}.
type MenuItemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	IsPesos  bool            `json:"isPesos"`
	Unit     string          `json:"unit"`
}

// ToItem builds the catalog entry for id.
func (r MenuItemRequest) ToItem(id string) menu.Item {
	return menu.Item{
		ID:       id,
		Name:     r.Name,
		Price:    r.Price,
		Category: r.Category,
		IsPesos:  r.IsPesos,
		Unit:     r.Unit,
	}
}

// CreateTableRequest is the body of POST /api/tables. The body is optional.
type CreateTableRequest struct {
	Name string `json:"name"`
}

// UpdateOrderRequest is the body of PUT /api/tables/{id}/order.
type UpdateOrderRequest struct {
	Items []menu.OrderLine `json:"items"`
}

// UpdateTableRequest is the body of PATCH /api/tables/{id}. Omitted fields
// are left unchanged.
type UpdateTableRequest struct {
	Name         *string `json:"name"`
	CustomerName *string `json:"customerName"`
	Observations *string `json:"observations"`
}

// AllocationRequest is the body of PUT .../tabs/{tab}/items/{itemID}.
// Exactly one of Quantity or Amount must be set; Amount is only meaningful
// for items sold by weight.
type AllocationRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
	Amount   *decimal.Decimal `json:"amount"`
}

// PaymentRequest is the body of PUT .../tabs/{tab}/payment. The parts are
// read only for the mixed method.
type PaymentRequest struct {
	Method   string          `json:"method"`
	Cash     decimal.Decimal `json:"cash"`
	Transfer decimal.Decimal `json:"transfer"`
	Card     decimal.Decimal `json:"card"`
}
