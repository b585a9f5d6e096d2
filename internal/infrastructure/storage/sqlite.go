package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/domain/payment"
	"github.com/GabRuby/calcTacos/internal/domain/sales"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage/migrations"
)

// Storage provides SQLite database access for tables, menu and sales.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := migrations.Up(context.Background(), db, migrations.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// ================================================================
// TABLES
// ================================================================

// SaveTable inserts or replaces a table
func (s *Storage) SaveTable(ctx context.Context, table *Table) error {
	orderJSON, err := EncodeLines(table.Order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}

	var startTime sql.NullTime
	if table.StartTime != nil {
		startTime = sql.NullTime{Time: *table.StartTime, Valid: true}
	}

	query := `
	INSERT OR REPLACE INTO dining_tables
	(id, number, name, status, order_json, start_time, customer_name, observations, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		table.ID,
		table.Number,
		table.Name,
		string(table.Status),
		orderJSON,
		startTime,
		table.CustomerName,
		table.Observations,
		time.Now(),
	)
	return err
}

const tableColumns = `id, number, name, status, order_json, start_time, customer_name, observations`

// GetTable retrieves a table by ID
func (s *Storage) GetTable(ctx context.Context, id string) (*Table, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tableColumns+` FROM dining_tables WHERE id = ?`, id)
	table, err := scanTable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return table, err
}

// ListTables returns all tables ordered by number
func (s *Storage) ListTables(ctx context.Context) ([]*Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tableColumns+` FROM dining_tables ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tables := make([]*Table, 0)
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

// DeleteTable removes a table
func (s *Storage) DeleteTable(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM dining_tables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// NextTableNumber returns one past the highest table number
func (s *Storage) NextTableNumber(ctx context.Context) (int, error) {
	var highest sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(number) FROM dining_tables`).Scan(&highest); err != nil {
		return 0, err
	}
	return int(highest.Int64) + 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTable(row rowScanner) (*Table, error) {
	var (
		table     Table
		status    string
		orderJSON string
		startTime sql.NullTime
	)
	err := row.Scan(
		&table.ID,
		&table.Number,
		&table.Name,
		&status,
		&orderJSON,
		&startTime,
		&table.CustomerName,
		&table.Observations,
	)
	if err != nil {
		return nil, err
	}

	table.Status = TableStatus(status)
	if startTime.Valid {
		t := startTime.Time
		table.StartTime = &t
	}
	if table.Order, err = DecodeLines(orderJSON); err != nil {
		return nil, fmt.Errorf("decode order for table %s: %w", table.ID, err)
	}
	return &table, nil
}

// ================================================================
// MENU
// ================================================================

// ListMenuItems returns the catalog ordered by category and name
func (s *Storage) ListMenuItems(ctx context.Context) ([]menu.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, category, is_pesos, unit
		FROM menu_items ORDER BY category, name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := make([]menu.Item, 0)
	for rows.Next() {
		var item menu.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.IsPesos, &item.Unit); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveMenuItem inserts or updates a catalog entry
func (s *Storage) SaveMenuItem(ctx context.Context, item menu.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO menu_items (id, name, price, category, is_pesos, unit)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			category = excluded.category,
			is_pesos = excluded.is_pesos,
			unit = excluded.unit
	`, item.ID, item.Name, item.Price.String(), item.Category, item.IsPesos, item.Unit)
	return err
}

// DeleteMenuItem removes a catalog entry
func (s *Storage) DeleteMenuItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ================================================================
// SALES
// ================================================================

// SaveSale records a closed sale under its business date
func (s *Storage) SaveSale(ctx context.Context, businessDate string, sale *sales.Sale) error {
	itemsJSON, err := EncodeLines(sale.Items)
	if err != nil {
		return fmt.Errorf("encode sale items: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sales
		(id, business_date, table_id, table_number, table_name, items_json, total,
		 sold_at, payment_method, cash_part, transfer_part, card_part)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sale.ID,
		businessDate,
		sale.TableID,
		sale.TableNumber,
		sale.TableName,
		itemsJSON,
		sale.Total.String(),
		sale.Timestamp,
		string(sale.PaymentMethod),
		sale.CashPart.String(),
		sale.TransferPart.String(),
		sale.CardPart.String(),
	)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s", ErrDuplicateSale, sale.ID)
	}
	return err
}

// ListSales returns a day's sales ordered by time
func (s *Storage) ListSales(ctx context.Context, businessDate string) ([]sales.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, table_id, table_number, table_name, items_json, total,
		       sold_at, payment_method, cash_part, transfer_part, card_part
		FROM sales WHERE business_date = ?
		ORDER BY sold_at, id
	`, businessDate)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make([]sales.Sale, 0)
	for rows.Next() {
		var (
			sale      sales.Sale
			itemsJSON string
			method    string
		)
		err := rows.Scan(
			&sale.ID,
			&sale.TableID,
			&sale.TableNumber,
			&sale.TableName,
			&itemsJSON,
			&sale.Total,
			&sale.Timestamp,
			&method,
			&sale.CashPart,
			&sale.TransferPart,
			&sale.CardPart,
		)
		if err != nil {
			return nil, err
		}
		sale.PaymentMethod = payment.Method(method)
		if sale.Items, err = DecodeLines(itemsJSON); err != nil {
			return nil, fmt.Errorf("decode items for sale %s: %w", sale.ID, err)
		}
		result = append(result, sale)
	}
	return result, rows.Err()
}

// ListSaleDates returns the business dates that have sales, newest first
func (s *Storage) ListSaleDates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT business_date FROM sales ORDER BY business_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	dates := make([]string, 0)
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
