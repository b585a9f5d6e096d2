package splitbill

import (
	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/payment"
)

// ItemAllocation is one item's quantity on a tab.
type ItemAllocation struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Max      decimal.Decimal `json:"max"`
}

// TabView is the read model of a single tab.
type TabView struct {
	Tab       Tab              `json:"tab"`
	Items     []ItemAllocation `json:"items"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	ItemCount decimal.Decimal  `json:"itemCount"`
	Paid      bool             `json:"paid"`
	Payment   *payment.Payment `json:"payment,omitempty"`
	Draft     *Draft           `json:"draft,omitempty"`
}

// ItemStatus shows how much of an ordered item has been assigned.
type ItemStatus struct {
	ItemID        string          `json:"itemId"`
	Name          string          `json:"name"`
	Ordered       decimal.Decimal `json:"ordered"`
	Assigned      decimal.Decimal `json:"assigned"`
	FullyAssigned bool            `json:"fullyAssigned"`
}

// View is a point-in-time read model of the whole session.
type View struct {
	Table            TableRef        `json:"table"`
	State            State           `json:"state"`
	Total            decimal.Decimal `json:"total"`
	Tabs             []TabView       `json:"tabs"`
	Items            []ItemStatus    `json:"items"`
	AllItemsAssigned bool            `json:"allItemsAssigned"`
	CanAddTab        bool            `json:"canAddTab"`
	CanClose         bool            `json:"canClose"`
	Generated        []Tab           `json:"generated"`
	Buckets          Buckets         `json:"buckets"`
}

func (s *Session) itemName(itemID string) string {
	if item, ok := s.item(itemID); ok {
		return item.Name
	}
	return itemID
}

// TabView builds the read model for one tab.
func (s *Session) TabView(tab Tab) TabView {
	v := TabView{
		Tab:       tab,
		Items:     make([]ItemAllocation, 0, len(s.order)),
		Subtotal:  s.Subtotal(tab),
		ItemCount: s.AssignedItemCount(tab),
		Paid:      s.paid[tab],
	}
	for _, line := range s.order {
		a := ItemAllocation{
			ItemID:   line.ItemID,
			Name:     s.itemName(line.ItemID),
			Quantity: s.Assigned(tab, line.ItemID),
		}
		if s.editable(tab) {
			a.Max = s.MaxAssignable(tab, line.ItemID)
		} else {
			a.Max = a.Quantity
		}
		v.Items = append(v.Items, a)
	}
	if p, ok := s.payments[tab]; ok {
		v.Payment = &p
	} else if !s.paid[tab] {
		d := s.Draft(tab)
		v.Draft = &d
	}
	return v
}

// View builds the read model for the whole session.
func (s *Session) View() View {
	v := View{
		Table:            s.table,
		State:            s.State(),
		Total:            s.total,
		Tabs:             make([]TabView, 0, len(s.tabs)),
		Items:            make([]ItemStatus, 0, len(s.order)),
		AllItemsAssigned: s.AllItemsAssigned(),
		CanAddTab:        !s.closed && s.letteredCount() < MaxLetteredTabs,
		CanClose:         s.CanClose(),
		Generated:        s.GeneratedSubaccounts(),
		Buckets:          s.Buckets(),
	}
	for _, tab := range s.tabs {
		v.Tabs = append(v.Tabs, s.TabView(tab))
	}
	for _, line := range s.order {
		assigned := s.TotalAssignedOverall(line.ItemID)
		v.Items = append(v.Items, ItemStatus{
			ItemID:        line.ItemID,
			Name:          s.itemName(line.ItemID),
			Ordered:       line.Quantity,
			Assigned:      assigned,
			FullyAssigned: assigned.Equal(line.Quantity),
		})
	}
	return v
}

// GeneratedSubaccounts lists the tabs that are paid or hold something.
func (s *Session) GeneratedSubaccounts() []Tab {
	var out []Tab
	for _, tab := range s.tabs {
		if s.paid[tab] || s.holdsAnything(tab) {
			out = append(out, tab)
		}
	}
	return out
}

func (s *Session) holdsAnything(tab Tab) bool {
	for _, line := range s.order {
		if s.Assigned(tab, line.ItemID).IsPositive() {
			return true
		}
	}
	return false
}
