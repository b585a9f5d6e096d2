// Package postgres is the PostgreSQL storage backend, for deployments that
// share one database between several registers.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/domain/payment"
	"github.com/GabRuby/calcTacos/internal/domain/sales"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage/migrations"
)

const uniqueViolation = "23505"

// Store implements storage.Repository on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Repository = (*Store)(nil)

// Connect opens a pool, checks it and applies pending migrations.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	if err := migrations.Up(ctx, db, migrations.Postgres); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) SaveTable(ctx context.Context, table *storage.Table) error {
	orderJSON, err := storage.EncodeLines(table.Order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO dining_tables
		(id, number, name, status, order_json, start_time, customer_name, observations, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (id) DO UPDATE SET
			number = EXCLUDED.number,
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			order_json = EXCLUDED.order_json,
			start_time = EXCLUDED.start_time,
			customer_name = EXCLUDED.customer_name,
			observations = EXCLUDED.observations,
			updated_at = now()
	`,
		table.ID,
		table.Number,
		table.Name,
		string(table.Status),
		[]byte(orderJSON),
		table.StartTime,
		table.CustomerName,
		table.Observations,
	)
	return err
}

const tableColumns = `id, number, name, status, order_json, start_time, customer_name, observations`

func (s *Store) GetTable(ctx context.Context, id string) (*storage.Table, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+tableColumns+` FROM dining_tables WHERE id = $1`, id)
	table, err := scanTable(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return table, err
}

func (s *Store) ListTables(ctx context.Context) ([]*storage.Table, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+tableColumns+` FROM dining_tables ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]*storage.Table, 0)
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (s *Store) DeleteTable(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM dining_tables WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) NextTableNumber(ctx context.Context) (int, error) {
	var next int
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) + 1 FROM dining_tables`).Scan(&next)
	return next, err
}

func scanTable(row pgx.Row) (*storage.Table, error) {
	var (
		table     storage.Table
		status    string
		orderJSON []byte
		startTime *time.Time
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
	table.Status = storage.TableStatus(status)
	table.StartTime = startTime
	if table.Order, err = storage.DecodeLines(string(orderJSON)); err != nil {
		return nil, fmt.Errorf("decode order for table %s: %w", table.ID, err)
	}
	return &table, nil
}

func (s *Store) ListMenuItems(ctx context.Context) ([]menu.Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, price, category, is_pesos, unit
		FROM menu_items ORDER BY category, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]menu.Item, 0)
	for rows.Next() {
		var (
			item  menu.Item
			price pgtype.Numeric
		)
		if err := rows.Scan(&item.ID, &item.Name, &price, &item.Category, &item.IsPesos, &item.Unit); err != nil {
			return nil, err
		}
		item.Price = fromNumeric(price)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) SaveMenuItem(ctx context.Context, item menu.Item) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO menu_items (id, name, price, category, is_pesos, unit)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			is_pesos = EXCLUDED.is_pesos,
			unit = EXCLUDED.unit
	`, item.ID, item.Name, toNumeric(item.Price), item.Category, item.IsPesos, item.Unit)
	return err
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) SaveSale(ctx context.Context, businessDate string, sale *sales.Sale) error {
	itemsJSON, err := storage.EncodeLines(sale.Items)
	if err != nil {
		return fmt.Errorf("encode sale items: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO sales
		(id, business_date, table_id, table_number, table_name, items_json, total,
		 sold_at, payment_method, cash_part, transfer_part, card_part)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		sale.ID,
		businessDate,
		sale.TableID,
		sale.TableNumber,
		sale.TableName,
		[]byte(itemsJSON),
		toNumeric(sale.Total),
		sale.Timestamp,
		string(sale.PaymentMethod),
		toNumeric(sale.CashPart),
		toNumeric(sale.TransferPart),
		toNumeric(sale.CardPart),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateSale, sale.ID)
	}
	return err
}

func (s *Store) ListSales(ctx context.Context, businessDate string) ([]sales.Sale, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, table_id, table_number, table_name, items_json, total,
		       sold_at, payment_method, cash_part, transfer_part, card_part
		FROM sales WHERE business_date = $1
		ORDER BY sold_at, id
	`, businessDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]sales.Sale, 0)
	for rows.Next() {
		var (
			sale                        sales.Sale
			itemsJSON                   []byte
			method                      string
			total, cash, transfer, card pgtype.Numeric
		)
		err := rows.Scan(
			&sale.ID,
			&sale.TableID,
			&sale.TableNumber,
			&sale.TableName,
			&itemsJSON,
			&total,
			&sale.Timestamp,
			&method,
			&cash,
			&transfer,
			&card,
		)
		if err != nil {
			return nil, err
		}
		sale.PaymentMethod = payment.Method(method)
		sale.Total = fromNumeric(total)
		sale.CashPart = fromNumeric(cash)
		sale.TransferPart = fromNumeric(transfer)
		sale.CardPart = fromNumeric(card)
		if sale.Items, err = storage.DecodeLines(string(itemsJSON)); err != nil {
			return nil, fmt.Errorf("decode items for sale %s: %w", sale.ID, err)
		}
		result = append(result, sale)
	}
	return result, rows.Err()
}

func (s *Store) ListSaleDates(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT business_date FROM sales ORDER BY business_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
