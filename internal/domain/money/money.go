// Package money formats and rounds currency amounts.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Default locale settings for the business.
const (
	DefaultCurrency = "MXN"
	DefaultLocale   = "es-MX"
)

// Tolerance is the largest difference treated as equal when comparing
// currency totals.
var Tolerance = decimal.RequireFromString("0.001")

// RoundCents rounds an amount to two decimal places.
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// WithinTolerance reports whether |a - b| <= Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// Formatter renders amounts with a currency symbol and locale grouping.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewFormatter creates a formatter for an ISO currency code and a BCP 47
// locale. Unknown values fall back to MXN and es-MX.
func NewFormatter(currencyCode, locale string) *Formatter {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		unit = currency.MXN
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &Formatter{
		unit:    unit,
		printer: message.NewPrinter(tag),
	}
}

// DefaultFormatter returns the MXN / es-MX formatter.
func DefaultFormatter() *Formatter {
	return NewFormatter(DefaultCurrency, DefaultLocale)
}

// Format renders amount as e.g. "$1,250.50".
func (f *Formatter) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	value, _ := RoundCents(amount).Float64()
	symbol := f.printer.Sprint(currency.NarrowSymbol(f.unit))
	return sign + symbol + f.printer.Sprintf("%.2f", value)
}

// Code returns the ISO currency code.
func (f *Formatter) Code() string {
	return f.unit.String()
}
