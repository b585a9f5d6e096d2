package splitbill

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/payment"
	"github.com/GabRuby/calcTacos/internal/domain/validator"
)

// SelectPayment records the method a tab will be paid with. Cash, transfer
// and card cover the tab's full subtotal at pay time; mixed needs an entry
// from EnterMixedPayment.
func (s *Session) SelectPayment(tab Tab, method payment.Method) error {
	if err := s.checkPayable(tab); err != nil {
		return err
	}
	switch method {
	case payment.Cash, payment.Transfer, payment.Card, payment.Mixed:
	default:
		return reject(ReasonInvalidPayment, tab)
	}

	s.drafts[tab] = Draft{Method: method}
	return nil
}

// EnterMixedPayment records the amounts for a mixed payment and returns the
// cash change owed. The parts must reach the tab's current subtotal.
func (s *Session) EnterMixedPayment(tab Tab, entry payment.MixedEntry) (decimal.Decimal, error) {
	if err := s.checkPayable(tab); err != nil {
		return decimal.Zero, err
	}

	_, change, err := payment.ResolveMixed(s.Subtotal(tab), entry)
	if err != nil {
		return decimal.Zero, paymentRejection(tab, err)
	}

	s.drafts[tab] = Draft{Method: payment.Mixed, Entry: entry}
	return change, nil
}

func (s *Session) checkPayable(tab Tab) error {
	if s.closed {
		return reject(ReasonSessionClosed, tab)
	}
	if !s.HasTab(tab) {
		return reject(ReasonUnknownTab, tab)
	}
	if s.paid[tab] {
		return reject(ReasonAlreadyPaid, tab)
	}
	return nil
}

func paymentRejection(tab Tab, err error) *Rejection {
	r := reject(ReasonInvalidPayment, tab)
	if errors.Is(err, payment.ErrInsufficientMixedPayment) {
		r.Reason = ReasonInsufficientMixedPayment
	}
	r.Detail = err.Error()
	return r
}

// PaySubaccount settles a tab.
//
// A tab with nothing assigned cannot be paid. When three tabs are already
// paid this is the last possible settlement, so every item must be fully
// accounted for and the paid subtotals plus this one must match the order
// total. Paying Rest freezes its current remainder.
func (s *Session) PaySubaccount(tab Tab) error {
	if err := s.checkPayable(tab); err != nil {
		return err
	}

	subtotal := s.Subtotal(tab)
	if s.AssignedItemCount(tab).IsZero() {
		return reject(ReasonEmptyAllocation, tab)
	}

	if s.PaidCount() == MaxSubaccounts-1 {
		if err := s.checkFinalSettlement(tab, subtotal); err != nil {
			return err
		}
	}

	p, err := s.resolvePayment(tab, subtotal)
	if err != nil {
		return err
	}

	if tab.IsRest() {
		s.freezeRest()
	}
	s.paid[tab] = true
	s.payments[tab] = p
	delete(s.drafts, tab)
	return nil
}

// checkFinalSettlement evaluates the order as if tab were already paid.
func (s *Session) checkFinalSettlement(tab Tab, subtotal decimal.Decimal) error {
	for _, line := range s.order {
		projected := s.TotalAssignedOverall(line.ItemID)
		if tab.IsRest() {
			projected = projected.Add(s.RestQuantity(line.ItemID))
		}
		if !projected.Equal(line.Quantity) {
			return reject(ReasonIncompleteAllocation, tab)
		}
	}

	var paid []decimal.Decimal
	for _, t := range s.tabs {
		if s.paid[t] {
			paid = append(paid, s.Subtotal(t))
		}
	}
	if v := validator.ValidateSettlement(paid, subtotal, s.total); !v.Valid {
		r := reject(ReasonTotalMismatch, tab)
		r.Detail = v.Reason
		return r
	}
	return nil
}

func (s *Session) resolvePayment(tab Tab, subtotal decimal.Decimal) (payment.Payment, error) {
	draft := s.Draft(tab)
	if draft.Method != payment.Mixed {
		return payment.ForMethod(draft.Method, subtotal), nil
	}
	p, _, err := payment.ResolveMixed(subtotal, draft.Entry)
	if err != nil {
		return payment.Payment{}, paymentRejection(tab, err)
	}
	return p, nil
}

func (s *Session) freezeRest() {
	row := make(map[string]decimal.Decimal, len(s.order))
	for _, line := range s.order {
		row[line.ItemID] = s.RestQuantity(line.ItemID)
	}
	s.assigned[Rest] = row
}
