// Package validator provides validation logic for bill settlement.
//
// The settlement validator ensures that the sub-account subtotals covering an
// order add up to the order total before the last sub-account is settled.
// This prevents closing a table whose payments do not match what was ordered.
package validator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/money"
)

// SettlementValidation contains the result of validating sub-account totals.
type SettlementValidation struct {
	// Valid is true if the subtotals cover the order total
	Valid bool

	// PaidSum is the sum of all subtotals, including the candidate
	PaidSum decimal.Decimal

	// ExpectedSum is the order total
	ExpectedSum decimal.Decimal

	// Difference is PaidSum minus ExpectedSum
	Difference decimal.Decimal

	// Reason explains why validation failed (empty if valid)
	Reason string
}

// ValidateSettlement checks that the already-paid subtotals plus the candidate
// subtotal equal the order total.
//
// The validation passes if:
//
//	sum(paid) + candidate ≈ orderTotal
//
// within money.Tolerance (0.001 currency units).
func ValidateSettlement(paid []decimal.Decimal, candidate, orderTotal decimal.Decimal) *SettlementValidation {
	sum := candidate
	for _, subtotal := range paid {
		sum = sum.Add(subtotal)
	}

	diff := sum.Sub(orderTotal)

	if money.WithinTolerance(sum, orderTotal) {
		return &SettlementValidation{
			Valid:       true,
			PaidSum:     sum,
			ExpectedSum: orderTotal,
			Difference:  diff,
		}
	}

	var reason string
	if diff.IsNegative() {
		reason = fmt.Sprintf("subtotals (%s) are less than the order total (%s) by %s",
			sum.StringFixed(2), orderTotal.StringFixed(2), diff.Neg().StringFixed(2))
	} else {
		reason = fmt.Sprintf("subtotals (%s) exceed the order total (%s) by %s",
			sum.StringFixed(2), orderTotal.StringFixed(2), diff.StringFixed(2))
	}

	return &SettlementValidation{
		Valid:       false,
		PaidSum:     sum,
		ExpectedSum: orderTotal,
		Difference:  diff,
		Reason:      reason,
	}
}
