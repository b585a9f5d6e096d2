package service

import "errors"

var (
	// ErrInvalidInput wraps validation failures of caller-supplied data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTableNotFound is returned when the table does not exist.
	ErrTableNotFound = errors.New("table not found")

	// ErrMenuItemNotFound is returned when the menu item does not exist.
	ErrMenuItemNotFound = errors.New("menu item not found")

	// ErrNoSession is returned when the table has no open split session.
	ErrNoSession = errors.New("no split session for table")

	// ErrEmptyOrder is returned when a split is opened for a table without an order.
	ErrEmptyOrder = errors.New("table has no order to split")

	// ErrSessionHasPayments is returned when abandoning a split that already has paid sub-accounts.
	ErrSessionHasPayments = errors.New("split session has paid sub-accounts")

	// ErrTableOccupied is returned when deleting a table that is serving customers.
	ErrTableOccupied = errors.New("table is occupied")

	// ErrSplitInProgress is returned when changing the order of a table whose bill is being split.
	ErrSplitInProgress = errors.New("table order is being split")
)
