// Package splitbill splits a table's order across sub-accounts and settles
// each one before the table is closed.
//
// A Session starts with a lettered tab A and the remainder tab Rest. The
// operator adds up to three lettered tabs, assigns item quantities to them,
// and pays tabs one by one. Rest is derived (ordered minus everything on
// lettered tabs) until it is paid, at which point its quantities are frozen.
//
// Every write is clamped so that, per item, the quantities across all tabs
// never exceed what was ordered. Operations that cannot proceed return a
// *Rejection and leave the session untouched.
package splitbill

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/domain/payment"
)

// TableRef identifies the table a session belongs to.
type TableRef struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Draft is the payment method selected for a tab that has not been paid yet.
type Draft struct {
	Method payment.Method     `json:"method"`
	Entry  payment.MixedEntry `json:"entry"`
}

// Session is the split state for one table's order.
type Session struct {
	table    TableRef
	order    []menu.OrderLine
	ordered  map[string]decimal.Decimal
	total    decimal.Decimal
	catalog  menu.Catalog
	tabs     []Tab
	assigned map[Tab]map[string]decimal.Decimal
	paid     map[Tab]bool
	payments map[Tab]payment.Payment
	drafts   map[Tab]Draft
	closed   bool
}

// NewSession opens a split session over order. total is the order total as
// charged to the table; catalog supplies prices and the weight-sold flag.
func NewSession(table TableRef, order []menu.OrderLine, total decimal.Decimal, catalog menu.Catalog) *Session {
	lines := menu.Compact(order)
	s := &Session{
		table:    table,
		order:    lines,
		ordered:  make(map[string]decimal.Decimal, len(lines)),
		total:    total,
		catalog:  catalog,
		tabs:     []Tab{"A", Rest},
		assigned: make(map[Tab]map[string]decimal.Decimal),
		paid:     make(map[Tab]bool),
		payments: make(map[Tab]payment.Payment),
		drafts:   make(map[Tab]Draft),
	}
	for _, line := range lines {
		s.ordered[line.ItemID] = line.Quantity
	}
	s.initTab("A")
	return s
}

func (s *Session) initTab(tab Tab) {
	row := make(map[string]decimal.Decimal, len(s.order))
	for _, line := range s.order {
		row[line.ItemID] = decimal.Zero
	}
	s.assigned[tab] = row
}

// Table returns the table reference.
func (s *Session) Table() TableRef { return s.table }

// Total returns the order total.
func (s *Session) Total() decimal.Decimal { return s.total }

// Order returns a copy of the order lines.
func (s *Session) Order() []menu.OrderLine { return slices.Clone(s.order) }

// Tabs returns the tabs in display order. Rest is always last.
func (s *Session) Tabs() []Tab { return slices.Clone(s.tabs) }

// HasTab reports whether tab exists in the session.
func (s *Session) HasTab(tab Tab) bool { return slices.Contains(s.tabs, tab) }

// IsClosed reports whether CloseAccount has succeeded.
func (s *Session) IsClosed() bool { return s.closed }

// Ordered returns the ordered quantity of an item.
func (s *Session) Ordered(itemID string) decimal.Decimal {
	return s.ordered[itemID]
}

func (s *Session) letteredCount() int {
	n := 0
	for _, t := range s.tabs {
		if !t.IsRest() {
			n++
		}
	}
	return n
}

// Assigned returns the quantity of an item on a tab. For Rest this is the
// remainder (or its frozen snapshot).
func (s *Session) Assigned(tab Tab, itemID string) decimal.Decimal {
	if tab.IsRest() {
		return s.RestQuantity(itemID)
	}
	return s.assigned[tab][itemID]
}

// assignedToLettered sums an item over lettered tabs only.
func (s *Session) assignedToLettered(itemID string) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range s.tabs {
		if t.IsRest() {
			continue
		}
		sum = sum.Add(s.assigned[t][itemID])
	}
	return sum
}

// RestQuantity is what remains of an item for the Rest tab: the frozen
// snapshot once Rest is paid, otherwise ordered minus lettered tabs.
func (s *Session) RestQuantity(itemID string) decimal.Decimal {
	if s.paid[Rest] {
		return s.assigned[Rest][itemID]
	}
	return s.ordered[itemID].Sub(s.assignedToLettered(itemID))
}

// TotalAssignedOverall sums an item across all tabs. An unpaid Rest holds
// nothing of its own and does not count; a paid Rest counts its snapshot.
func (s *Session) TotalAssignedOverall(itemID string) decimal.Decimal {
	sum := s.assignedToLettered(itemID)
	if s.paid[Rest] {
		sum = sum.Add(s.assigned[Rest][itemID])
	}
	return sum
}

// AllItemsAssigned reports whether every item is fully assigned.
func (s *Session) AllItemsAssigned() bool {
	for _, line := range s.order {
		if !s.TotalAssignedOverall(line.ItemID).Equal(line.Quantity) {
			return false
		}
	}
	return true
}

func (s *Session) item(itemID string) (menu.Item, bool) {
	if s.catalog == nil {
		return menu.Item{}, false
	}
	return s.catalog.Lookup(itemID)
}

func (s *Session) price(itemID string) decimal.Decimal {
	item, ok := s.item(itemID)
	if !ok {
		return decimal.Zero
	}
	return item.Price
}

// DisplayQuantity is the count shown for an assigned quantity. Weight-sold
// items count as one unit whenever any amount is assigned.
func (s *Session) DisplayQuantity(itemID string, qty decimal.Decimal) decimal.Decimal {
	if item, ok := s.item(itemID); ok && item.IsPesos {
		if qty.IsPositive() {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	}
	return qty
}

// AssignedItemCount is the display count of everything on a tab.
func (s *Session) AssignedItemCount(tab Tab) decimal.Decimal {
	count := decimal.Zero
	for _, line := range s.order {
		count = count.Add(s.DisplayQuantity(line.ItemID, s.Assigned(tab, line.ItemID)))
	}
	return count
}

// Subtotal is price times assigned quantity summed over a tab.
func (s *Session) Subtotal(tab Tab) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range s.order {
		sum = sum.Add(s.price(line.ItemID).Mul(s.Assigned(tab, line.ItemID)))
	}
	return sum
}

// IsPaid reports whether a tab has been settled.
func (s *Session) IsPaid(tab Tab) bool { return s.paid[tab] }

// PaidCount is the number of settled tabs.
func (s *Session) PaidCount() int {
	n := 0
	for _, p := range s.paid {
		if p {
			n++
		}
	}
	return n
}

// HasPayments reports whether any tab has been settled.
func (s *Session) HasPayments() bool { return s.PaidCount() > 0 }

// Payment returns the recorded payment for a paid tab.
func (s *Session) Payment(tab Tab) (payment.Payment, bool) {
	p, ok := s.payments[tab]
	return p, ok
}

// Draft returns the pending method for an unpaid tab. Tabs without a
// selection are paid in cash.
func (s *Session) Draft(tab Tab) Draft {
	if d, ok := s.drafts[tab]; ok {
		return d
	}
	return Draft{Method: payment.Cash}
}
