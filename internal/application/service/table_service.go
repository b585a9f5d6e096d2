package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage"
)

// TableInfo holds the editable descriptive fields of a table. Nil fields
// are left unchanged.
type TableInfo struct {
	Name         *string
	CustomerName *string
	Observations *string
}

// TableService manages dining tables and their open orders.
type TableService struct {
	repo   storage.TableRepository
	menu   *MenuService
	logger *slog.Logger
	now    func() time.Time

	hooksMu     sync.Mutex
	onRelease   []func(tableID string)
	orderGuards []func(tableID string) error
}

// NewTableService creates a new table service.
func NewTableService(repo storage.TableRepository, menuSvc *MenuService, logger *slog.Logger) *TableService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableService{
		repo:   repo,
		menu:   menuSvc,
		logger: logger,
		now:    time.Now,
	}
}

// OnRelease registers a callback run after a table is released or deleted.
func (s *TableService) OnRelease(fn func(tableID string)) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.onRelease = append(s.onRelease, fn)
}

// GuardOrder registers a check run before a table's order is replaced.
// A non-nil error refuses the change.
func (s *TableService) GuardOrder(fn func(tableID string) error) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.orderGuards = append(s.orderGuards, fn)
}

func (s *TableService) notifyRelease(tableID string) {
	s.hooksMu.Lock()
	callbacks := append([]func(string){}, s.onRelease...)
	s.hooksMu.Unlock()

	for _, fn := range callbacks {
		fn(tableID)
	}
}

func (s *TableService) checkOrderGuards(tableID string) error {
	s.hooksMu.Lock()
	guards := append([]func(string) error{}, s.orderGuards...)
	s.hooksMu.Unlock()

	for _, fn := range guards {
		if err := fn(tableID); err != nil {
			return err
		}
	}
	return nil
}

// List returns every table ordered by number.
func (s *TableService) List(ctx context.Context) ([]*storage.Table, error) {
	tables, err := s.repo.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// Get returns one table.
func (s *TableService) Get(ctx context.Context, id string) (*storage.Table, error) {
	table, err := s.repo.GetTable(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get table %s: %w", id, err)
	}
	return table, nil
}

// Create adds an available table with the next free number.
func (s *TableService) Create(ctx context.Context, name string) (*storage.Table, error) {
	number, err := s.repo.NextTableNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("next table number: %w", err)
	}

	table := &storage.Table{
		ID:     uuid.NewString(),
		Number: number,
		Name:   strings.TrimSpace(name),
		Status: storage.TableAvailable,
	}
	if err := s.repo.SaveTable(ctx, table); err != nil {
		return nil, fmt.Errorf("save table: %w", err)
	}

	s.logger.Info("table created", "table_id", table.ID, "number", number)
	return table, nil
}

// Delete removes an available table.
func (s *TableService) Delete(ctx context.Context, id string) error {
	table, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if table.Status == storage.TableOccupied {
		return ErrTableOccupied
	}
	if err := s.repo.DeleteTable(ctx, id); err != nil {
		return fmt.Errorf("delete table %s: %w", id, err)
	}

	s.logger.Info("table deleted", "table_id", id)
	s.notifyRelease(id)
	return nil
}

// StartOrder marks the table occupied with an empty order.
func (s *TableService) StartOrder(ctx context.Context, id string) (*storage.Table, error) {
	table, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if table.Status == storage.TableOccupied {
		return table, nil
	}
	if err := s.checkOrderGuards(id); err != nil {
		return nil, err
	}

	start := s.now()
	table.Status = storage.TableOccupied
	table.StartTime = &start
	table.Order = nil
	if err := s.repo.SaveTable(ctx, table); err != nil {
		return nil, fmt.Errorf("save table %s: %w", id, err)
	}

	s.logger.Info("order started", "table_id", id, "number", table.Number)
	return table, nil
}

// UpdateOrder replaces the table's order. Every line must reference a
// catalog item; unit items take whole quantities. Duplicate lines are
// merged and zero lines dropped. An order being split cannot change.
func (s *TableService) UpdateOrder(ctx context.Context, id string, lines []menu.OrderLine) (*storage.Table, error) {
	table, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOrderGuards(id); err != nil {
		return nil, err
	}
	catalog, err := s.menu.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateOrder(lines, catalog); err != nil {
		return nil, err
	}

	table.Order = menu.Compact(lines)
	if table.Status != storage.TableOccupied {
		start := s.now()
		table.Status = storage.TableOccupied
		table.StartTime = &start
	}
	if err := s.repo.SaveTable(ctx, table); err != nil {
		return nil, fmt.Errorf("save table %s: %w", id, err)
	}

	s.logger.Debug("order updated", "table_id", id, "lines", len(table.Order))
	return table, nil
}

func validateOrder(lines []menu.OrderLine, catalog menu.Catalog) error {
	for _, line := range lines {
		item, ok := catalog.Lookup(line.ItemID)
		if !ok {
			return fmt.Errorf("%w: unknown menu item %q", ErrInvalidInput, line.ItemID)
		}
		if line.Quantity.IsNegative() {
			return fmt.Errorf("%w: negative quantity for %q", ErrInvalidInput, line.ItemID)
		}
		if !item.IsPesos && !line.Quantity.Equal(line.Quantity.Truncate(0)) {
			return fmt.Errorf("%w: %q is sold by unit", ErrInvalidInput, line.ItemID)
		}
	}
	return nil
}

// UpdateInfo edits the table's name, customer and observations.
func (s *TableService) UpdateInfo(ctx context.Context, id string, info TableInfo) (*storage.Table, error) {
	table, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if info.Name != nil {
		table.Name = strings.TrimSpace(*info.Name)
	}
	if info.CustomerName != nil {
		table.CustomerName = strings.TrimSpace(*info.CustomerName)
	}
	if info.Observations != nil {
		table.Observations = *info.Observations
	}
	if err := s.repo.SaveTable(ctx, table); err != nil {
		return nil, fmt.Errorf("save table %s: %w", id, err)
	}
	return table, nil
}

// Release clears the order and customer details and frees the table.
func (s *TableService) Release(ctx context.Context, id string) (*storage.Table, error) {
	table, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	table.Release()
	if err := s.repo.SaveTable(ctx, table); err != nil {
		return nil, fmt.Errorf("save table %s: %w", id, err)
	}

	s.logger.Info("table released", "table_id", id, "number", table.Number)
	s.notifyRelease(id)
	return table, nil
}

// OrderTotal prices the table's order against the current catalog.
func (s *TableService) OrderTotal(ctx context.Context, table *storage.Table) (decimal.Decimal, error) {
	catalog, err := s.menu.Catalog(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return menu.CalculateTotal(table.Order, catalog), nil
}
