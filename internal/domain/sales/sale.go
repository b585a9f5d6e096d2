// Package sales models closed sales and the per-day summary built from them.
package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/domain/payment"
)

// Sale is one closed table account.
type Sale struct {
	ID            string           `json:"id"`
	TableID       string           `json:"tableId"`
	TableNumber   int              `json:"tableNumber"`
	TableName     string           `json:"tableName"`
	Items         []menu.OrderLine `json:"items"`
	Total         decimal.Decimal  `json:"total"`
	Timestamp     time.Time        `json:"timestamp"`
	PaymentMethod payment.Method   `json:"paymentMethod"`
	CashPart      decimal.Decimal  `json:"cashPart"`
	TransferPart  decimal.Decimal  `json:"transferPart"`
	CardPart      decimal.Decimal  `json:"cardPart"`
}
