package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/domain/payment"
	"github.com/GabRuby/calcTacos/internal/domain/sales"
	"github.com/GabRuby/calcTacos/internal/domain/splitbill"
	"github.com/GabRuby/calcTacos/internal/infrastructure/events"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage"
	"github.com/GabRuby/calcTacos/internal/observability"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

type fixture struct {
	repo      *storage.MockRepository
	menu      *MenuService
	tables    *TableService
	sales     *SalesService
	splits    *SplitService
	publisher *events.Recorder
	metrics   *observability.Metrics
	clock     time.Time
}

func (f *fixture) now() time.Time { return f.clock }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := storage.NewMockRepository()
	for _, item := range []menu.Item{
		{ID: "taco", Name: "Taco de pastor", Price: d("10"), Category: "tacos"},
		{ID: "soda", Name: "Refresco", Price: d("5"), Category: "bebidas"},
		{ID: "carne", Name: "Carne asada", Price: d("320"), IsPesos: true, Unit: "kg", Category: "por kilo"},
	} {
		require.NoError(t, repo.SaveMenuItem(ctx, item))
	}

	f := &fixture{
		repo:      repo,
		publisher: &events.Recorder{},
		metrics:   observability.NewMetrics(),
		clock:     time.Date(2026, 10, 16, 21, 0, 0, 0, time.UTC),
	}
	f.menu = NewMenuService(repo, logger)
	f.tables = NewTableService(repo, f.menu, logger)
	f.sales = NewSalesService(repo, f.menu, sales.NewCalendar(time.UTC, nil), logger)
	f.splits = NewSplitService(f.tables, f.menu, f.sales, f.publisher, f.metrics, nil, logger)

	f.tables.now = f.now
	f.sales.now = f.now
	f.splits.now = f.now
	return f
}

func (f *fixture) occupiedTable(t *testing.T, lines ...menu.OrderLine) *storage.Table {
	t.Helper()
	ctx := context.Background()
	table, err := f.tables.Create(ctx, "")
	require.NoError(t, err)
	table, err = f.tables.UpdateOrder(ctx, table.ID, lines)
	require.NoError(t, err)
	return table
}

func line(id, qty string) menu.OrderLine {
	return menu.OrderLine{ItemID: id, Quantity: d(qty)}
}

func (f *fixture) apply(t *testing.T, tableID string, cmds ...splitbill.Command) splitbill.View {
	t.Helper()
	var v splitbill.View
	for _, cmd := range cmds {
		var err error
		v, err = f.splits.Apply(tableID, cmd)
		require.NoError(t, err)
	}
	return v
}

// settleEvenly splits four tacos 2/2 between A (cash) and Rest (transfer).
func (f *fixture) settleEvenly(t *testing.T, tableID string) {
	t.Helper()
	f.apply(t, tableID,
		splitbill.SetQuantityCommand{Tab: "A", ItemID: "taco", Quantity: d("2")},
		splitbill.PayCommand{Tab: "A"},
		splitbill.SelectPaymentCommand{Tab: splitbill.Rest, Method: payment.Transfer},
		splitbill.PayCommand{Tab: splitbill.Rest},
	)
}

// ================================================================
// SPLITS
// ================================================================

func TestSplitService_Open(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.occupiedTable(t, line("taco", "4"))

	v, err := f.splits.Open(ctx, table.ID)
	require.NoError(t, err)

	assert.Equal(t, "Mesa 1", v.Table.Name)
	assertDec(t, "40", v.Total)
	assert.Equal(t, splitbill.StateOpen, v.State)
	assert.Equal(t, 1, f.splits.SessionCount())
}

func TestSplitService_OpenResumesExistingSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.occupiedTable(t, line("taco", "4"))

	_, err := f.splits.Open(ctx, table.ID)
	require.NoError(t, err)
	f.apply(t, table.ID, splitbill.AddTabCommand{})

	v, err := f.splits.Open(ctx, table.ID)
	require.NoError(t, err)
	assert.Len(t, v.Tabs, 3)
	assert.Equal(t, 1, f.splits.SessionCount())
}

func TestSplitService_OpenErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("unknown table", func(t *testing.T) {
		_, err := f.splits.Open(ctx, "nope")
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("no order", func(t *testing.T) {
		table, err := f.tables.Create(ctx, "Terraza")
		require.NoError(t, err)

		_, err = f.splits.Open(ctx, table.ID)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("only zero lines", func(t *testing.T) {
		table := f.occupiedTable(t, line("taco", "0"))

		_, err := f.splits.Open(ctx, table.ID)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})
}

func TestSplitService_ApplyWithoutSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.splits.Apply("t1", splitbill.AddTabCommand{})
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = f.splits.View("t1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSplitService_RejectionIsCounted(t *testing.T) {
	f := newFixture(t)
	table := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(context.Background(), table.ID)
	require.NoError(t, err)

	_, err = f.splits.Apply(table.ID, splitbill.PayCommand{Tab: "A"})
	assert.ErrorIs(t, err, splitbill.ErrEmptyAllocation)

	var rejection *splitbill.Rejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, splitbill.Tab("A"), rejection.Tab)

	count, err := testutil.GatherAndCount(f.metrics.Registry(), "calctacos_split_rejections_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	v, err := f.splits.View(table.ID)
	require.NoError(t, err)
	assert.Equal(t, splitbill.StateOpen, v.State)
}

func TestSplitService_PaymentIsCounted(t *testing.T) {
	f := newFixture(t)
	table := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(context.Background(), table.ID)
	require.NoError(t, err)

	v := f.apply(t, table.ID,
		splitbill.SetQuantityCommand{Tab: "A", ItemID: "taco", Quantity: d("1")},
		splitbill.SelectPaymentCommand{Tab: "A", Method: payment.Card},
		splitbill.PayCommand{Tab: "A"},
	)

	assert.Equal(t, splitbill.StatePartiallyPaid, v.State)
	count, err := testutil.GatherAndCount(f.metrics.Registry(), "calctacos_subaccounts_paid_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSplitService_EnterMixedPayment(t *testing.T) {
	f := newFixture(t)
	table := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(context.Background(), table.ID)
	require.NoError(t, err)
	f.apply(t, table.ID, splitbill.SetQuantityCommand{Tab: "A", ItemID: "taco", Quantity: d("2")})

	change, v, err := f.splits.EnterMixedPayment(table.ID, "A", payment.MixedEntry{Cash: d("50"), Transfer: d("5")})
	require.NoError(t, err)
	assertDec(t, "35", change)
	require.NotNil(t, v.Tabs[0].Draft)
	assert.Equal(t, payment.Mixed, v.Tabs[0].Draft.Method)

	_, _, err = f.splits.EnterMixedPayment(table.ID, "A", payment.MixedEntry{Cash: d("5")})
	assert.ErrorIs(t, err, splitbill.ErrInsufficientMixedPayment)
}

func TestSplitService_Close(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(ctx, table.ID)
	require.NoError(t, err)
	f.settleEvenly(t, table.ID)

	result, err := f.splits.Close(ctx, table.ID)
	require.NoError(t, err)

	assert.Equal(t, "2026-10-16", result.BusinessDate)
	assertDec(t, "40", result.Sale.Total)
	assertDec(t, "20", result.Sale.CashPart)
	assertDec(t, "20", result.Sale.TransferPart)
	assertDec(t, "40", result.DailyTotal)
	assert.Equal(t, f.clock, result.Sale.Timestamp)

	assert.True(t, f.repo.SaveSaleCalled)
	assert.Equal(t, "2026-10-16", f.repo.LastSaleDate)

	released, err := f.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.TableAvailable, released.Status)
	assert.Empty(t, released.Order)

	published := f.publisher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.SaleClosedType, published[0].Type)
	assert.Equal(t, result.Sale.ID, published[0].Sale.ID)

	assert.Equal(t, 0, f.splits.SessionCount())
	_, err = f.splits.View(table.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSplitService_CloseRequiresFullAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(ctx, table.ID)
	require.NoError(t, err)
	f.apply(t, table.ID,
		splitbill.SetQuantityCommand{Tab: "A", ItemID: "taco", Quantity: d("2")},
		splitbill.PayCommand{Tab: "A"},
	)

	_, err = f.splits.Close(ctx, table.ID)
	assert.ErrorIs(t, err, splitbill.ErrNotFullyAssigned)
	assert.False(t, f.repo.SaveSaleCalled)
	assert.Equal(t, 1, f.splits.SessionCount())
}

func TestSplitService_CloseStorageFailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(ctx, table.ID)
	require.NoError(t, err)
	f.settleEvenly(t, table.ID)

	f.repo.SaveSaleErr = errors.New("disk full")
	_, err = f.splits.Close(ctx, table.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, f.publisher.Events())

	still, err := f.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.TableOccupied, still.Status)

	f.repo.SaveSaleErr = nil
	result, err := f.splits.Close(ctx, table.ID)
	require.NoError(t, err)
	assertDec(t, "40", result.Sale.Total)
}

func TestSplitService_ClosePublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(ctx, table.ID)
	require.NoError(t, err)
	f.settleEvenly(t, table.ID)

	f.publisher.Err = errors.New("broker down")
	result, err := f.splits.Close(ctx, table.ID)
	require.NoError(t, err)
	assert.NotNil(t, result.Sale)
	assert.True(t, f.repo.SaveSaleCalled)
}

func TestSplitService_Discard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("nothing paid", func(t *testing.T) {
		table := f.occupiedTable(t, line("taco", "4"))
		_, err := f.splits.Open(ctx, table.ID)
		require.NoError(t, err)

		require.NoError(t, f.splits.Discard(table.ID))
		assert.ErrorIs(t, f.splits.Discard(table.ID), ErrNoSession)
	})

	t.Run("with payments", func(t *testing.T) {
		table := f.occupiedTable(t, line("taco", "4"))
		_, err := f.splits.Open(ctx, table.ID)
		require.NoError(t, err)
		f.apply(t, table.ID,
			splitbill.SetQuantityCommand{Tab: "A", ItemID: "taco", Quantity: d("1")},
			splitbill.PayCommand{Tab: "A"},
		)

		assert.ErrorIs(t, f.splits.Discard(table.ID), ErrSessionHasPayments)
	})
}

func TestSplitService_ReleaseDropsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(ctx, table.ID)
	require.NoError(t, err)

	_, err = f.tables.Release(ctx, table.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, f.splits.SessionCount())
}

func TestSplitService_OrderLockedWhileSplitting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(ctx, table.ID)
	require.NoError(t, err)

	_, err = f.tables.UpdateOrder(ctx, table.ID, []menu.OrderLine{line("taco", "4"), line("soda", "2")})
	assert.ErrorIs(t, err, ErrSplitInProgress)

	stored, err := f.tables.Get(ctx, table.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Order, 1)

	// The sale records exactly the order that was split.
	f.settleEvenly(t, table.ID)
	result, err := f.splits.Close(ctx, table.ID)
	require.NoError(t, err)
	assertDec(t, "40", result.Sale.Total)

	// Once closed the table takes orders again.
	_, err = f.tables.UpdateOrder(ctx, table.ID, []menu.OrderLine{line("soda", "2")})
	assert.NoError(t, err)
}

func TestSplitService_DiscardUnlocksOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(ctx, table.ID)
	require.NoError(t, err)
	require.NoError(t, f.splits.Discard(table.ID))

	updated, err := f.tables.UpdateOrder(ctx, table.ID, []menu.OrderLine{line("taco", "4"), line("soda", "2")})
	require.NoError(t, err)
	assert.Len(t, updated.Order, 2)

	v, err := f.splits.Open(ctx, table.ID)
	require.NoError(t, err)
	assertDec(t, "50", v.Total)
}

func TestSplitService_DiscardIdle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	idle := f.occupiedTable(t, line("taco", "4"))
	paid := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(ctx, idle.ID)
	require.NoError(t, err)
	_, err = f.splits.Open(ctx, paid.ID)
	require.NoError(t, err)
	f.apply(t, paid.ID,
		splitbill.SetQuantityCommand{Tab: "A", ItemID: "taco", Quantity: d("1")},
		splitbill.PayCommand{Tab: "A"},
	)

	assert.Equal(t, 0, f.splits.DiscardIdle(time.Hour))

	f.clock = f.clock.Add(13 * time.Hour)
	assert.Equal(t, 1, f.splits.DiscardIdle(DefaultSessionIdleTimeout))

	_, err = f.splits.View(idle.ID)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = f.splits.View(paid.ID)
	assert.NoError(t, err)
}

func TestSplitService_BackgroundCleanupStops(t *testing.T) {
	f := newFixture(t)

	f.splits.StartBackgroundCleanup(time.Millisecond, time.Hour)
	time.Sleep(5 * time.Millisecond)
	f.splits.StopBackgroundCleanup()
	f.splits.StopBackgroundCleanup()
}

func TestSplitService_Receipts(t *testing.T) {
	f := newFixture(t)
	table := f.occupiedTable(t, line("taco", "4"))
	_, err := f.splits.Open(context.Background(), table.ID)
	require.NoError(t, err)
	f.apply(t, table.ID, splitbill.SetQuantityCommand{Tab: "A", ItemID: "taco", Quantity: d("2")})

	receipt, err := f.splits.Receipt(table.ID, "A")
	require.NoError(t, err)
	assert.Contains(t, receipt, "Taco de pastor")

	account, err := f.splits.AccountReceipt(table.ID)
	require.NoError(t, err)
	assert.Contains(t, account, "Cuenta completa")
}

// ================================================================
// TABLES
// ================================================================

func TestTableService_CreateNumbersSequentially(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.tables.Create(ctx, "  Terraza ")
	require.NoError(t, err)
	second, err := f.tables.Create(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "Terraza", first.Name)
	assert.Equal(t, 2, second.Number)
	assert.Equal(t, "Mesa 2", second.DisplayName())
	assert.Equal(t, storage.TableAvailable, second.Status)
}

func TestTableService_UpdateOrderValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table, err := f.tables.Create(ctx, "")
	require.NoError(t, err)

	tests := []struct {
		name  string
		lines []menu.OrderLine
	}{
		{"unknown item", []menu.OrderLine{line("pozole", "1")}},
		{"negative quantity", []menu.OrderLine{line("taco", "-1")}},
		{"fractional unit item", []menu.OrderLine{line("taco", "1.5")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tables.UpdateOrder(ctx, table.ID, tt.lines)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestTableService_UpdateOrderCompactsAndOccupies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table, err := f.tables.Create(ctx, "")
	require.NoError(t, err)

	updated, err := f.tables.UpdateOrder(ctx, table.ID, []menu.OrderLine{
		line("taco", "2"),
		line("soda", "0"),
		line("taco", "1"),
		line("carne", "0.350"),
	})
	require.NoError(t, err)

	assert.Equal(t, storage.TableOccupied, updated.Status)
	require.NotNil(t, updated.StartTime)
	assert.Equal(t, f.clock, *updated.StartTime)
	require.Len(t, updated.Order, 2)
	assertDec(t, "3", updated.Order[0].Quantity)

	total, err := f.tables.OrderTotal(ctx, updated)
	require.NoError(t, err)
	assertDec(t, "142", total)
}

func TestTableService_UpdateInfoAndRelease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.occupiedTable(t, line("taco", "2"))

	name, customer, notes := "Patio", " Don Chuy ", "sin cebolla"
	updated, err := f.tables.UpdateInfo(ctx, table.ID, TableInfo{Name: &name, CustomerName: &customer, Observations: &notes})
	require.NoError(t, err)
	assert.Equal(t, "Patio", updated.Name)
	assert.Equal(t, "Don Chuy", updated.CustomerName)
	assert.Equal(t, "sin cebolla", updated.Observations)

	released, err := f.tables.Release(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.TableAvailable, released.Status)
	assert.Empty(t, released.Order)
	assert.Empty(t, released.CustomerName)
	assert.Nil(t, released.StartTime)
}

func TestTableService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	occupied := f.occupiedTable(t, line("taco", "1"))
	assert.ErrorIs(t, f.tables.Delete(ctx, occupied.ID), ErrTableOccupied)

	free, err := f.tables.Create(ctx, "")
	require.NoError(t, err)
	require.NoError(t, f.tables.Delete(ctx, free.ID))

	_, err = f.tables.Get(ctx, free.ID)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.ErrorIs(t, f.tables.Delete(ctx, free.ID), ErrTableNotFound)
}

func TestTableService_StartOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table, err := f.tables.Create(ctx, "")
	require.NoError(t, err)

	started, err := f.tables.StartOrder(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.TableOccupied, started.Status)
	assert.Empty(t, started.Order)

	f.clock = f.clock.Add(time.Hour)
	again, err := f.tables.StartOrder(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, *started.StartTime, *again.StartTime)
}

// ================================================================
// SALES
// ================================================================

func recordSale(t *testing.T, f *fixture, id string, total string, method payment.Method) {
	t.Helper()
	sale := &sales.Sale{
		ID:            id,
		TableID:       "t1",
		TableNumber:   1,
		Items:         []menu.OrderLine{line("taco", total)},
		Total:         d(total).Mul(d("10")),
		Timestamp:     f.clock,
		PaymentMethod: method,
	}
	switch method {
	case payment.Transfer:
		sale.TransferPart = sale.Total
	case payment.Card:
		sale.CardPart = sale.Total
	default:
		sale.CashPart = sale.Total
	}
	_, err := f.sales.Record(context.Background(), sale)
	require.NoError(t, err)
}

func TestSalesService_Daily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	recordSale(t, f, "s1", "2", payment.Cash)
	recordSale(t, f, "s2", "3", payment.Card)

	summary, err := f.sales.Daily(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, "2026-10-16", summary.Date)
	assert.Len(t, summary.Sales, 2)
	assertDec(t, "50", summary.Total)
	assertDec(t, "20", summary.Payments.Cash)
	assertDec(t, "30", summary.Payments.Card)

	_, err = f.sales.Daily(ctx, "16/10/2026")
	assert.ErrorIs(t, err, ErrInvalidInput)

	dates, err := f.sales.Dates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-16"}, dates)
}

func TestSalesService_ExportImport(t *testing.T) {
	source := newFixture(t)
	ctx := context.Background()
	recordSale(t, source, "s1", "2", payment.Cash)
	recordSale(t, source, "s2", "1", payment.Transfer)

	data, filename, err := source.sales.Export(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, "ventas-2026-10-16.json", filename)

	target := newFixture(t)
	recordSale(t, target, "s1", "2", payment.Cash)

	result, err := target.sales.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", result.Date)
	assert.Equal(t, 1, result.Added)
	assert.Len(t, result.Summary.Sales, 2)
	assertDec(t, "30", result.Summary.Total)

	again, err := target.sales.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Added)
}

func TestSalesService_ImportCoercesUnknownMethod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	data, err := json.Marshal(map[string]interface{}{
		"date": "2026-10-15",
		"sales": []map[string]interface{}{
			{"id": "old-1", "total": "25", "paymentMethod": "Vales", "cashPart": "25"},
		},
	})
	require.NoError(t, err)

	result, err := f.sales.Import(ctx, data)
	require.NoError(t, err)
	require.Len(t, result.Summary.Sales, 1)
	assert.Equal(t, payment.Unspecified, result.Summary.Sales[0].PaymentMethod)
}

func TestSalesService_ImportRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.sales.Import(ctx, []byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.sales.Import(ctx, []byte(`{"date":"ayer","sales":[]}`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// ================================================================
// MENU
// ================================================================

func TestMenuService_SaveAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.menu.Save(ctx, menu.Item{ID: "agua", Name: "", Price: d("15")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, f.menu.Save(ctx, menu.Item{ID: "agua", Name: "Agua de horchata", Price: d("15")}))
	catalog, err := f.menu.Catalog(ctx)
	require.NoError(t, err)
	item, ok := catalog.Lookup("agua")
	require.True(t, ok)
	assertDec(t, "15", item.Price)

	require.NoError(t, f.menu.Delete(ctx, "agua"))
	assert.ErrorIs(t, f.menu.Delete(ctx, "agua"), ErrMenuItemNotFound)
}

func TestMenuService_Seed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	seed := `
- id: taco
  name: Taco de pastor
  price: "18.50"
  category: tacos
- id: carne
  name: Carne asada
  price: "320"
  is_pesos: true
  unit: kg
`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	repo := storage.NewMockRepository()
	svc := NewMenuService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	added, err := svc.Seed(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Second run leaves the populated catalog alone
	added, err = svc.Seed(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	added, err = svc.Seed(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestLoadSeedFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: x\n  price: \"1\"\n"), 0o600))

	_, err := LoadSeedFile(path)
	assert.Error(t, err)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
