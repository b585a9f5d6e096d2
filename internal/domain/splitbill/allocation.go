package splitbill

import (
	"github.com/shopspring/decimal"
)

// AddTab creates the next lettered tab, placed just before Rest. The new
// tab starts with nothing assigned.
func (s *Session) AddTab() (Tab, error) {
	if s.closed {
		return "", reject(ReasonSessionClosed, "")
	}
	if s.letteredCount() >= MaxLetteredTabs {
		return "", reject(ReasonTabLimitReached, "")
	}

	tab := nextLabel(s.tabs)
	s.tabs = insertBeforeRest(s.tabs, tab)
	s.initTab(tab)
	return tab, nil
}

// MaxAssignable is the largest quantity of an item a tab may hold given
// what the other tabs already have.
func (s *Session) MaxAssignable(tab Tab, itemID string) decimal.Decimal {
	current := s.assigned[tab][itemID]
	others := s.TotalAssignedOverall(itemID).Sub(current)
	return s.ordered[itemID].Sub(others)
}

// SetQuantity assigns requested units of an item to a lettered tab and
// returns the quantity actually stored.
//
// Unit-sold items take whole units, so a fractional request is floored.
// The value is clamped to [0, MaxAssignable]. Writes to Rest, to a paid
// tab, to an unknown tab or for an item outside the order are ignored and
// the current quantity is returned.
func (s *Session) SetQuantity(tab Tab, itemID string, requested decimal.Decimal) decimal.Decimal {
	if !s.editable(tab) {
		return s.Assigned(tab, itemID)
	}
	if _, ok := s.ordered[itemID]; !ok {
		return decimal.Zero
	}

	if !s.soldByWeight(itemID) {
		requested = requested.Floor()
	}
	value := decimal.Min(requested, s.MaxAssignable(tab, itemID))
	value = decimal.Max(decimal.Zero, value)
	s.assigned[tab][itemID] = value
	return value
}

// SetAmount assigns a weight-sold item by currency amount instead of
// quantity. The amount is converted at the item's price and then clamped
// like SetQuantity. Unit-sold items are left unchanged.
func (s *Session) SetAmount(tab Tab, itemID string, amount decimal.Decimal) decimal.Decimal {
	if !s.soldByWeight(itemID) {
		return s.Assigned(tab, itemID)
	}
	price := s.price(itemID)
	if price.IsZero() {
		return s.SetQuantity(tab, itemID, decimal.Zero)
	}
	return s.SetQuantity(tab, itemID, amount.Div(price))
}

func (s *Session) soldByWeight(itemID string) bool {
	item, ok := s.item(itemID)
	return ok && item.IsPesos
}

func (s *Session) editable(tab Tab) bool {
	return !s.closed && !tab.IsRest() && !s.paid[tab] && s.HasTab(tab)
}
