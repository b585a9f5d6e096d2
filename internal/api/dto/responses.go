package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/domain/splitbill"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	OpenSplits int    `json:"openSplits"`
}

// NewHealthResponse creates a healthy response stamped with the current time.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// MenuListResponse is returned by GET /api/menu.
type MenuListResponse struct {
	Items []menu.Item `json:"items"`
	Count int         `json:"count"`
}

// TableResponse represents a table in API responses.
type TableResponse struct {
	ID           string           `json:"id"`
	Number       int              `json:"number"`
	Name         string           `json:"name"`
	DisplayName  string           `json:"displayName"`
	Status       string           `json:"status"`
	Order        []menu.OrderLine `json:"order"`
	OrderTotal   decimal.Decimal  `json:"orderTotal"`
	StartTime    string           `json:"startTime,omitempty"`
	CustomerName string           `json:"customerName,omitempty"`
	Observations string           `json:"observations,omitempty"`
}

// NewTableResponse converts a stored table.
func NewTableResponse(t *storage.Table, total decimal.Decimal) TableResponse {
	resp := TableResponse{
		ID:           t.ID,
		Number:       t.Number,
		Name:         t.Name,
		DisplayName:  t.DisplayName(),
		Status:       string(t.Status),
		Order:        t.Order,
		OrderTotal:   total,
		CustomerName: t.CustomerName,
		Observations: t.Observations,
	}
	if resp.Order == nil {
		resp.Order = []menu.OrderLine{}
	}
	if t.StartTime != nil {
		resp.StartTime = t.StartTime.Format(time.RFC3339)
	}
	return resp
}

// TableListResponse is returned by GET /api/tables.
type TableListResponse struct {
	Tables []TableResponse `json:"tables"`
	Count  int             `json:"count"`
}

// MixedPaymentResponse is returned when a mixed payment is entered.
type MixedPaymentResponse struct {
	Change decimal.Decimal `json:"change"`
	Split  splitbill.View  `json:"split"`
}

// ReceiptResponse wraps receipt text.
type ReceiptResponse struct {
	Tab  string `json:"tab,omitempty"`
	Text string `json:"text"`
}

// DatesResponse lists business dates with sales.
type DatesResponse struct {
	Dates []string `json:"dates"`
}
