package menu

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCatalog() Index {
	return NewIndex([]Item{
		{ID: "taco", Name: "Taco de pastor", Price: d("18.50")},
		{ID: "soda", Name: "Refresco", Price: d("25")},
		{ID: "carne", Name: "Carne asada", Price: d("320"), IsPesos: true, Unit: "kg"},
	})
}

func TestCalculateTotal(t *testing.T) {
	lines := []OrderLine{
		{ItemID: "taco", Quantity: d("4")},
		{ItemID: "soda", Quantity: d("2")},
		{ItemID: "carne", Quantity: d("0.25")},
	}

	total := CalculateTotal(lines, testCatalog())

	// 74 + 50 + 80
	assert.True(t, d("204").Equal(total), "got %s", total)
}

func TestCalculateTotal_UnknownItemIgnored(t *testing.T) {
	lines := []OrderLine{
		{ItemID: "taco", Quantity: d("1")},
		{ItemID: "ghost", Quantity: d("3")},
	}

	total := CalculateTotal(lines, testCatalog())
	assert.True(t, d("18.5").Equal(total))
}

func TestCalculateTotal_RoundsToCents(t *testing.T) {
	catalog := NewIndex([]Item{{ID: "x", Name: "X", Price: d("10.333")}})
	total := CalculateTotal([]OrderLine{{ItemID: "x", Quantity: d("1")}}, catalog)
	assert.Equal(t, "10.33", total.StringFixed(2))
}

func TestHasValidOrder(t *testing.T) {
	assert.False(t, HasValidOrder(nil))
	assert.False(t, HasValidOrder([]OrderLine{{ItemID: "taco", Quantity: decimal.Zero}}))
	assert.True(t, HasValidOrder([]OrderLine{{ItemID: "taco", Quantity: d("1")}}))
}

func TestCompact(t *testing.T) {
	lines := []OrderLine{
		{ItemID: "taco", Quantity: d("2")},
		{ItemID: "soda", Quantity: decimal.Zero},
		{ItemID: "carne", Quantity: d("0.5")},
		{ItemID: "taco", Quantity: d("1")},
	}

	out := Compact(lines)

	assert.Len(t, out, 2)
	assert.Equal(t, "taco", out[0].ItemID)
	assert.True(t, d("3").Equal(out[0].Quantity))
	assert.Equal(t, "carne", out[1].ItemID)
}

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{"valid", Item{ID: "a", Name: "A", Price: d("1")}, false},
		{"missing id", Item{Name: "A", Price: d("1")}, true},
		{"missing name", Item{ID: "a", Price: d("1")}, true},
		{"negative price", Item{ID: "a", Name: "A", Price: d("-1")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
