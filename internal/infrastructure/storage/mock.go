package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/domain/sales"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	mu        sync.Mutex
	tables    map[string]*Table
	menuItems map[string]menu.Item
	sales     map[string][]sales.Sale // Keyed by business date
	saleIDs   map[string]bool

	// Hooks for test assertions
	SaveTableCalled bool
	LastSavedTable  *Table
	SaveSaleCalled  bool
	LastSavedSale   *sales.Sale
	LastSaleDate    string

	// Error injection for testing error paths
	SaveTableErr error
	GetTableErr  error
	SaveSaleErr  error
	ListSalesErr error
	ListMenuErr  error
	SaveMenuErr  error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		tables:    make(map[string]*Table),
		menuItems: make(map[string]menu.Item),
		sales:     make(map[string][]sales.Sale),
		saleIDs:   make(map[string]bool),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// SaveTable stores a copy of the table
func (m *MockRepository) SaveTable(_ context.Context, table *Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveTableCalled = true
	m.LastSavedTable = table
	if m.SaveTableErr != nil {
		return m.SaveTableErr
	}
	m.tables[table.ID] = copyTable(table)
	return nil
}

// GetTable returns a copy of the stored table
func (m *MockRepository) GetTable(_ context.Context, id string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetTableErr != nil {
		return nil, m.GetTableErr
	}
	table, ok := m.tables[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyTable(table), nil
}

// ListTables returns copies of all tables ordered by number
func (m *MockRepository) ListTables(_ context.Context) ([]*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tables := make([]*Table, 0, len(m.tables))
	for _, table := range m.tables {
		tables = append(tables, copyTable(table))
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables, nil
}

// DeleteTable removes a table
func (m *MockRepository) DeleteTable(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[id]; !ok {
		return ErrNotFound
	}
	delete(m.tables, id)
	return nil
}

// NextTableNumber returns one past the highest number in use
func (m *MockRepository) NextTableNumber(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	highest := 0
	for _, table := range m.tables {
		if table.Number > highest {
			highest = table.Number
		}
	}
	return highest + 1, nil
}

// ListMenuItems returns the catalog ordered by category and name
func (m *MockRepository) ListMenuItems(_ context.Context) ([]menu.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListMenuErr != nil {
		return nil, m.ListMenuErr
	}
	items := make([]menu.Item, 0, len(m.menuItems))
	for _, item := range m.menuItems {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// SaveMenuItem upserts a catalog entry
func (m *MockRepository) SaveMenuItem(_ context.Context, item menu.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveMenuErr != nil {
		return m.SaveMenuErr
	}
	m.menuItems[item.ID] = item
	return nil
}

// DeleteMenuItem removes a catalog entry
func (m *MockRepository) DeleteMenuItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.menuItems[id]; !ok {
		return ErrNotFound
	}
	delete(m.menuItems, id)
	return nil
}

// SaveSale appends a sale to its business date
func (m *MockRepository) SaveSale(_ context.Context, businessDate string, sale *sales.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveSaleCalled = true
	m.LastSavedSale = sale
	m.LastSaleDate = businessDate
	if m.SaveSaleErr != nil {
		return m.SaveSaleErr
	}
	if m.saleIDs[sale.ID] {
		return fmt.Errorf("%w: %s", ErrDuplicateSale, sale.ID)
	}
	m.saleIDs[sale.ID] = true
	m.sales[businessDate] = append(m.sales[businessDate], *sale)
	return nil
}

// ListSales returns a day's sales in insertion order
func (m *MockRepository) ListSales(_ context.Context, businessDate string) ([]sales.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListSalesErr != nil {
		return nil, m.ListSalesErr
	}
	result := make([]sales.Sale, len(m.sales[businessDate]))
	copy(result, m.sales[businessDate])
	return result, nil
}

// ListSaleDates returns the dates with sales, newest first
func (m *MockRepository) ListSaleDates(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dates := make([]string, 0, len(m.sales))
	for date := range m.sales {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

func copyTable(t *Table) *Table {
	copied := *t
	copied.Order = append([]menu.OrderLine(nil), t.Order...)
	if t.StartTime != nil {
		start := *t.StartTime
		copied.StartTime = &start
	}
	return &copied
}
