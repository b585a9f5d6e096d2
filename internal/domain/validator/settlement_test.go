package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidateSettlement_Exact(t *testing.T) {
	// Three tabs already paid, fourth covers the rest
	paid := []decimal.Decimal{d("20"), d("15.50"), d("4.50")}

	result := ValidateSettlement(paid, d("10"), d("50"))

	assert.True(t, result.Valid)
	assert.True(t, d("50").Equal(result.PaidSum))
	assert.True(t, result.Difference.IsZero())
	assert.Empty(t, result.Reason)
}

func TestValidateSettlement_WithinTolerance(t *testing.T) {
	result := ValidateSettlement([]decimal.Decimal{d("33.333")}, d("66.6665"), d("100"))

	assert.True(t, result.Valid)
}

func TestValidateSettlement_Short(t *testing.T) {
	result := ValidateSettlement([]decimal.Decimal{d("20")}, d("10"), d("40"))

	assert.False(t, result.Valid)
	assert.True(t, d("-10").Equal(result.Difference))
	assert.Contains(t, result.Reason, "less than")
	assert.Contains(t, result.Reason, "10.00")
}

func TestValidateSettlement_Over(t *testing.T) {
	result := ValidateSettlement([]decimal.Decimal{d("30")}, d("15"), d("40"))

	assert.False(t, result.Valid)
	assert.Contains(t, result.Reason, "exceed")
	assert.Contains(t, result.Reason, "5.00")
}

func TestValidateSettlement_NoPaid(t *testing.T) {
	result := ValidateSettlement(nil, d("40"), d("40"))

	assert.True(t, result.Valid)
}
