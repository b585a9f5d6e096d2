package storage

import (
	"context"
	"errors"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/domain/sales"
)

var (
	// ErrNotFound is returned when a table or menu item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSale is returned when a sale ID is already recorded.
	ErrDuplicateSale = errors.New("sale already recorded")
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL)
// and makes testing with mocks straightforward.
type Repository interface {
	TableRepository
	MenuRepository
	SalesRepository
	Close() error
}

// TableRepository persists dining tables and their open orders
type TableRepository interface {
	// SaveTable inserts or replaces a table
	SaveTable(ctx context.Context, table *Table) error

	// GetTable returns ErrNotFound when the table does not exist
	GetTable(ctx context.Context, id string) (*Table, error)

	// ListTables returns all tables ordered by number
	ListTables(ctx context.Context) ([]*Table, error)

	// DeleteTable returns ErrNotFound when the table does not exist
	DeleteTable(ctx context.Context, id string) error

	// NextTableNumber returns one past the highest table number in use
	NextTableNumber(ctx context.Context) (int, error)
}

// MenuRepository persists the catalog
type MenuRepository interface {
	ListMenuItems(ctx context.Context) ([]menu.Item, error)
	SaveMenuItem(ctx context.Context, item menu.Item) error
	DeleteMenuItem(ctx context.Context, id string) error
}

// SalesRepository persists closed sales keyed by business date
type SalesRepository interface {
	// SaveSale returns ErrDuplicateSale when the ID is already recorded
	SaveSale(ctx context.Context, businessDate string, sale *sales.Sale) error

	// ListSales returns a day's sales in the order they were made
	ListSales(ctx context.Context, businessDate string) ([]sales.Sale, error)

	// ListSaleDates returns every business date with sales, newest first
	ListSaleDates(ctx context.Context) ([]string, error)
}
