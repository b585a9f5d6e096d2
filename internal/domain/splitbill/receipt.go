package splitbill

import (
	"fmt"
	"strings"

	"github.com/GabRuby/calcTacos/internal/domain/money"
	"github.com/GabRuby/calcTacos/internal/domain/payment"
)

// SubaccountReceipt renders the plain-text receipt of one tab, as encoded
// into the QR code handed to the customer.
func (s *Session) SubaccountReceipt(tab Tab, f *money.Formatter) (string, error) {
	if !s.HasTab(tab) {
		return "", reject(ReasonUnknownTab, tab)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subcuenta %s:\n\n", tab)

	for _, line := range s.order {
		item, ok := s.item(line.ItemID)
		if !ok {
			continue
		}
		qty := s.Assigned(tab, line.ItemID)
		if !qty.IsPositive() {
			continue
		}
		fmt.Fprintf(&b, "%s x %s = %s\n", item.Name, qty.String(), f.Format(item.Price.Mul(qty)))
	}

	p, paid := s.payments[tab]
	method := payment.Unspecified
	if paid {
		method = p.Method
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", f.Format(s.Subtotal(tab)))
	fmt.Fprintf(&b, "Método de pago: %s\n", method.Label())

	if paid && p.Method == payment.Mixed {
		if p.CashPart.IsPositive() {
			fmt.Fprintf(&b, "%s: %s\n", payment.Cash.Label(), f.Format(p.CashPart))
		}
		if p.TransferPart.IsPositive() {
			fmt.Fprintf(&b, "%s: %s\n", payment.Transfer.Label(), f.Format(p.TransferPart))
		}
		if p.CardPart.IsPositive() {
			fmt.Fprintf(&b, "%s: %s\n", payment.Card.Label(), f.Format(p.CardPart))
		}
	}

	return b.String(), nil
}

// AccountReceipt renders the whole order with its total.
func (s *Session) AccountReceipt(f *money.Formatter) string {
	var b strings.Builder
	b.WriteString("Cuenta completa:\n\n")
	for _, line := range s.order {
		item, ok := s.item(line.ItemID)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s x %s = %s\n", item.Name, line.Quantity.String(), f.Format(item.Price.Mul(line.Quantity)))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", f.Format(s.total))
	return b.String()
}
