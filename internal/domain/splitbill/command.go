package splitbill

import (
	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/payment"
)

// Command is a single mutation applied to a session through Apply.
type Command interface {
	apply(s *Session) error
}

// AddTabCommand creates the next lettered tab.
type AddTabCommand struct{}

// SetQuantityCommand assigns a quantity of an item to a tab.
type SetQuantityCommand struct {
	Tab      Tab
	ItemID   string
	Quantity decimal.Decimal
}

// SetAmountCommand assigns a weight-sold item by currency amount.
type SetAmountCommand struct {
	Tab    Tab
	ItemID string
	Amount decimal.Decimal
}

// SelectPaymentCommand chooses the method a tab will be paid with.
type SelectPaymentCommand struct {
	Tab    Tab
	Method payment.Method
}

// MixedPaymentCommand enters the parts of a mixed payment.
type MixedPaymentCommand struct {
	Tab   Tab
	Entry payment.MixedEntry
}

// PayCommand settles a tab.
type PayCommand struct {
	Tab Tab
}

func (AddTabCommand) apply(s *Session) error {
	_, err := s.AddTab()
	return err
}

func (c SetQuantityCommand) apply(s *Session) error {
	s.SetQuantity(c.Tab, c.ItemID, c.Quantity)
	return nil
}

func (c SetAmountCommand) apply(s *Session) error {
	s.SetAmount(c.Tab, c.ItemID, c.Amount)
	return nil
}

func (c SelectPaymentCommand) apply(s *Session) error {
	return s.SelectPayment(c.Tab, c.Method)
}

func (c MixedPaymentCommand) apply(s *Session) error {
	_, err := s.EnterMixedPayment(c.Tab, c.Entry)
	return err
}

func (c PayCommand) apply(s *Session) error {
	return s.PaySubaccount(c.Tab)
}

// Apply runs a command against the session. A rejected command leaves the
// session unchanged.
func (s *Session) Apply(cmd Command) error {
	return cmd.apply(s)
}
