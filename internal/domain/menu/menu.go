// Package menu holds the catalog items a table can order and the order lines
// that reference them.
//
// Prices and quantities are decimals. Weight-sold items (IsPesos) carry a
// continuous quantity; everything else is counted in whole units.
package menu

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is a single catalog entry.
type Item struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
	Category string          `json:"category,omitempty" yaml:"category"`
	IsPesos  bool            `json:"isPesos" yaml:"is_pesos"`
	Unit     string          `json:"unit,omitempty" yaml:"unit"`
}

// Validate checks the fields required to sell an item.
func (i Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("item id is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("item name is required")
	}
	if i.Price.IsNegative() {
		return errors.New("item price cannot be negative")
	}
	return nil
}

// Catalog resolves item metadata by ID.
type Catalog interface {
	Lookup(id string) (Item, bool)
}

// Index is a map-backed Catalog.
type Index map[string]Item

// NewIndex builds an Index from a list of items. Later duplicates win.
func NewIndex(items []Item) Index {
	idx := make(Index, len(items))
	for _, item := range items {
		idx[item.ID] = item
	}
	return idx
}

// Lookup implements Catalog.
func (idx Index) Lookup(id string) (Item, bool) {
	item, ok := idx[id]
	return item, ok
}

// OrderLine is one ordered item and how much of it was ordered.
type OrderLine struct {
	ItemID   string          `json:"itemId"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CalculateTotal sums price times quantity for every line, rounded to cents.
// Lines whose item is missing from the catalog contribute nothing.
func CalculateTotal(lines []OrderLine, catalog Catalog) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		item, ok := catalog.Lookup(line.ItemID)
		if !ok {
			continue
		}
		total = total.Add(item.Price.Mul(line.Quantity))
	}
	return total.Round(2)
}

// HasValidOrder reports whether at least one line has a positive quantity.
func HasValidOrder(lines []OrderLine) bool {
	for _, line := range lines {
		if line.Quantity.IsPositive() {
			return true
		}
	}
	return false
}

// Compact merges duplicate item lines and drops non-positive quantities,
// keeping first-seen order.
func Compact(lines []OrderLine) []OrderLine {
	positions := make(map[string]int, len(lines))
	out := make([]OrderLine, 0, len(lines))
	for _, line := range lines {
		if !line.Quantity.IsPositive() {
			continue
		}
		if i, ok := positions[line.ItemID]; ok {
			out[i].Quantity = out[i].Quantity.Add(line.Quantity)
			continue
		}
		positions[line.ItemID] = len(out)
		out = append(out, line)
	}
	return out
}
