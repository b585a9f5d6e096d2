// Package payment models how a sub-account or a sale was paid.
//
// A Payment records the method and how much of the amount went to each
// bucket. Single-method payments put the whole amount in one part; mixed
// payments spread it across cash, transfer and card.
package payment

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Method identifies how an amount was paid.
type Method string

const (
	Cash        Method = "cash"
	Transfer    Method = "transfer"
	Card        Method = "card"
	Mixed       Method = "mixed"
	Unspecified Method = "NoEsp"
)

var (
	// ErrInsufficientMixedPayment is returned when mixed parts do not reach the amount due.
	ErrInsufficientMixedPayment = errors.New("mixed payment does not cover the amount due")

	// ErrInvalidPayment is returned for negative parts or non-cash parts above the amount due.
	ErrInvalidPayment = errors.New("invalid payment amounts")

	// ErrUnknownMethod is returned by ParseMethod.
	ErrUnknownMethod = errors.New("unknown payment method")
)

// ParseMethod parses a method name as stored and sent over the API.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case Cash, Transfer, Card, Mixed, Unspecified:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Label returns the Spanish display name.
func (m Method) Label() string {
	switch m {
	case Cash:
		return "Efectivo"
	case Transfer:
		return "Transferencia"
	case Card:
		return "Tarjeta"
	case Mixed:
		return "Mixto"
	default:
		return "No especificado"
	}
}

// Payment is a recorded payment and its split across buckets.
type Payment struct {
	Method       Method          `json:"method"`
	CashPart     decimal.Decimal `json:"cashPart"`
	TransferPart decimal.Decimal `json:"transferPart"`
	CardPart     decimal.Decimal `json:"cardPart"`
}

// Total is the sum of all parts.
func (p Payment) Total() decimal.Decimal {
	return p.CashPart.Add(p.TransferPart).Add(p.CardPart)
}

// ForMethod builds a single-method payment for amount. Mixed and
// Unspecified produce a payment with all parts at zero.
func ForMethod(method Method, amount decimal.Decimal) Payment {
	p := Payment{Method: method}
	switch method {
	case Cash:
		p.CashPart = amount
	case Transfer:
		p.TransferPart = amount
	case Card:
		p.CardPart = amount
	}
	return p
}

// MixedEntry is what the operator typed for a mixed payment. Cash is the
// amount tendered, which may exceed what is owed.
type MixedEntry struct {
	Cash     decimal.Decimal `json:"cash"`
	Transfer decimal.Decimal `json:"transfer"`
	Card     decimal.Decimal `json:"card"`
}

// Sum is the total tendered.
func (e MixedEntry) Sum() decimal.Decimal {
	return e.Cash.Add(e.Transfer).Add(e.Card)
}

// ResolveMixed turns a mixed entry into a payment for amount.
//
// Transfer and card are applied as entered; cash covers the remainder and
// anything tendered above it is returned as change.
func ResolveMixed(amount decimal.Decimal, entry MixedEntry) (Payment, decimal.Decimal, error) {
	if entry.Cash.IsNegative() || entry.Transfer.IsNegative() || entry.Card.IsNegative() {
		return Payment{}, decimal.Zero, ErrInvalidPayment
	}
	if entry.Sum().LessThan(amount) {
		return Payment{}, decimal.Zero, ErrInsufficientMixedPayment
	}

	nonCash := entry.Transfer.Add(entry.Card)
	if nonCash.GreaterThan(amount) {
		return Payment{}, decimal.Zero, ErrInvalidPayment
	}

	cashApplied := amount.Sub(nonCash)
	return Payment{
		Method:       Mixed,
		CashPart:     cashApplied,
		TransferPart: entry.Transfer,
		CardPart:     entry.Card,
	}, entry.Cash.Sub(cashApplied), nil
}

// Change returns what to give back for a cash payment. Never negative.
func Change(tendered, due decimal.Decimal) decimal.Decimal {
	if tendered.LessThanOrEqual(due) {
		return decimal.Zero
	}
	return tendered.Sub(due)
}
