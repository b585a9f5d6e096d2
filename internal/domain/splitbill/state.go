package splitbill

// State is where a session is in its settlement lifecycle.
type State string

const (
	StateOpen                        State = "open"
	StatePartiallyPaid               State = "partially_paid"
	StateFullyAllocatedPartiallyPaid State = "fully_allocated_partially_paid"
	StateAllSettled                  State = "all_settled"
	StateClosed                      State = "closed"
)

// State derives the lifecycle state from the session contents.
func (s *Session) State() State {
	switch {
	case s.closed:
		return StateClosed
	case !s.HasPayments():
		return StateOpen
	case !s.AllItemsAssigned():
		return StatePartiallyPaid
	}

	for _, tab := range s.tabs {
		if !s.paid[tab] && s.AssignedItemCount(tab).IsPositive() {
			return StateFullyAllocatedPartiallyPaid
		}
	}
	return StateAllSettled
}

// CanClose reports whether CloseAccount would succeed.
func (s *Session) CanClose() bool {
	return !s.closed && s.AllItemsAssigned()
}
