package splitbill

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/payment"
	"github.com/GabRuby/calcTacos/internal/domain/sales"
)

// Buckets is the paid amount per payment method across all settled tabs.
// Mixed is informational: the parts of mixed payments are already included
// in Cash, Transfer and Card.
type Buckets struct {
	Cash     decimal.Decimal `json:"cash"`
	Transfer decimal.Decimal `json:"transfer"`
	Card     decimal.Decimal `json:"card"`
	Mixed    decimal.Decimal `json:"mixed"`
}

// Primary picks the method with the largest amount, preferring cash, then
// transfer, then card on ties. Unspecified when nothing was paid.
func (b Buckets) Primary() payment.Method {
	top := decimal.Max(b.Cash, b.Transfer, b.Card)
	if !top.IsPositive() {
		return payment.Unspecified
	}
	switch {
	case b.Cash.Equal(top):
		return payment.Cash
	case b.Transfer.Equal(top):
		return payment.Transfer
	default:
		return payment.Card
	}
}

// Buckets aggregates the payments of every paid tab.
func (s *Session) Buckets() Buckets {
	b := Buckets{}
	for _, tab := range s.tabs {
		if !s.paid[tab] {
			continue
		}
		p, ok := s.payments[tab]
		if !ok {
			continue
		}
		subtotal := s.Subtotal(tab)
		switch p.Method {
		case payment.Cash:
			b.Cash = b.Cash.Add(subtotal)
		case payment.Transfer:
			b.Transfer = b.Transfer.Add(subtotal)
		case payment.Card:
			b.Card = b.Card.Add(subtotal)
		case payment.Mixed:
			b.Mixed = b.Mixed.Add(subtotal)
			b.Cash = b.Cash.Add(p.CashPart)
			b.Transfer = b.Transfer.Add(p.TransferPart)
			b.Card = b.Card.Add(p.CardPart)
		}
	}
	return b
}

// CloseAccount aggregates the settled tabs into one sale and closes the
// session. Every item must be fully assigned.
func (s *Session) CloseAccount(now time.Time) (*sales.Sale, error) {
	if s.closed {
		return nil, reject(ReasonSessionClosed, "")
	}
	if !s.AllItemsAssigned() {
		return nil, reject(ReasonNotFullyAssigned, "")
	}

	b := s.Buckets()
	sale := &sales.Sale{
		ID:            uuid.NewString(),
		TableID:       s.table.ID,
		TableNumber:   s.table.Number,
		TableName:     s.table.Name,
		Items:         s.Order(),
		Total:         s.total,
		Timestamp:     now,
		PaymentMethod: b.Primary(),
		CashPart:      b.Cash,
		TransferPart:  b.Transfer,
		CardPart:      b.Card,
	}

	s.closed = true
	return sale, nil
}

// Reopen undoes CloseAccount when the sale it returned could not be recorded.
func (s *Session) Reopen() {
	s.closed = false
}
