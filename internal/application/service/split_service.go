package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/domain/money"
	"github.com/GabRuby/calcTacos/internal/domain/payment"
	"github.com/GabRuby/calcTacos/internal/domain/sales"
	"github.com/GabRuby/calcTacos/internal/domain/splitbill"
	"github.com/GabRuby/calcTacos/internal/infrastructure/events"
	"github.com/GabRuby/calcTacos/internal/observability"
)

// DefaultSessionIdleTimeout is how long a split with nothing paid may sit
// untouched before the background cleanup discards it. Sessions with paid
// sub-accounts are never discarded automatically.
const DefaultSessionIdleTimeout = 12 * time.Hour

// CloseResult is what closing a table's account produces.
type CloseResult struct {
	Sale         *sales.Sale     `json:"sale"`
	BusinessDate string          `json:"businessDate"`
	DailyTotal   decimal.Decimal `json:"dailyTotal"`
}

type splitEntry struct {
	session     *splitbill.Session
	openedAt    time.Time
	lastTouched time.Time
}

// SplitService owns the in-memory split sessions, one per table, and runs
// every split operation under a single lock.
type SplitService struct {
	tables    *TableService
	menu      *MenuService
	sales     *SalesService
	publisher events.Publisher
	metrics   *observability.Metrics
	formatter *money.Formatter
	logger    *slog.Logger
	now       func() time.Time

	sessions map[string]*splitEntry
	mu       sync.Mutex

	// Background cleanup
	cleanupStop chan struct{}
	cleanupDone chan struct{}
}

// NewSplitService creates a new split service. Releasing a table through
// tables drops its session.
func NewSplitService(
	tables *TableService,
	menuSvc *MenuService,
	salesSvc *SalesService,
	publisher events.Publisher,
	metrics *observability.Metrics,
	formatter *money.Formatter,
	logger *slog.Logger,
) *SplitService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if formatter == nil {
		formatter = money.DefaultFormatter()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &SplitService{
		tables:    tables,
		menu:      menuSvc,
		sales:     salesSvc,
		publisher: publisher,
		metrics:   metrics,
		formatter: formatter,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*splitEntry),
	}
	tables.OnRelease(s.drop)
	tables.GuardOrder(s.guardOrder)
	return s
}

// Open starts a split for the table's current order, or resumes the one
// already open.
func (s *SplitService) Open(ctx context.Context, tableID string) (splitbill.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[tableID]; ok {
		entry.lastTouched = s.now()
		return entry.session.View(), nil
	}

	table, err := s.tables.Get(ctx, tableID)
	if err != nil {
		return splitbill.View{}, err
	}
	if !menu.HasValidOrder(table.Order) {
		return splitbill.View{}, ErrEmptyOrder
	}
	catalog, err := s.menu.Catalog(ctx)
	if err != nil {
		return splitbill.View{}, err
	}

	ref := splitbill.TableRef{ID: table.ID, Number: table.Number, Name: table.DisplayName()}
	order := menu.Compact(table.Order)
	total := menu.CalculateTotal(order, catalog)
	session := splitbill.NewSession(ref, order, total, catalog)

	now := s.now()
	s.sessions[tableID] = &splitEntry{session: session, openedAt: now, lastTouched: now}
	s.metrics.SessionOpened()

	s.logger.Info("split opened", "table_id", tableID, "number", table.Number, "total", total)
	return session.View(), nil
}

// View returns the current state of the table's split.
func (s *SplitService) View(tableID string) (splitbill.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[tableID]
	if !ok {
		return splitbill.View{}, ErrNoSession
	}
	return entry.session.View(), nil
}

// Apply runs one command against the table's split.
func (s *SplitService) Apply(tableID string, cmd splitbill.Command) (splitbill.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[tableID]
	if !ok {
		return splitbill.View{}, ErrNoSession
	}
	entry.lastTouched = s.now()

	if err := entry.session.Apply(cmd); err != nil {
		s.recordRejection(tableID, err)
		return splitbill.View{}, err
	}

	if pay, ok := cmd.(splitbill.PayCommand); ok {
		s.recordPayment(tableID, entry.session, pay.Tab)
	}
	return entry.session.View(), nil
}

// EnterMixedPayment records a mixed payment for a tab and returns the cash
// change owed with the refreshed view.
func (s *SplitService) EnterMixedPayment(tableID string, tab splitbill.Tab, mixed payment.MixedEntry) (decimal.Decimal, splitbill.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[tableID]
	if !ok {
		return decimal.Zero, splitbill.View{}, ErrNoSession
	}
	entry.lastTouched = s.now()

	change, err := entry.session.EnterMixedPayment(tab, mixed)
	if err != nil {
		s.recordRejection(tableID, err)
		return decimal.Zero, splitbill.View{}, err
	}
	return change, entry.session.View(), nil
}

// Receipt renders one sub-account's receipt.
func (s *SplitService) Receipt(tableID string, tab splitbill.Tab) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[tableID]
	if !ok {
		return "", ErrNoSession
	}
	return entry.session.SubaccountReceipt(tab, s.formatter)
}

// AccountReceipt renders the receipt for the whole order.
func (s *SplitService) AccountReceipt(tableID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[tableID]
	if !ok {
		return "", ErrNoSession
	}
	return entry.session.AccountReceipt(s.formatter), nil
}

// Discard abandons the table's split. A split with paid sub-accounts cannot
// be abandoned; close it or release the table instead.
func (s *SplitService) Discard(tableID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[tableID]
	if !ok {
		return ErrNoSession
	}
	if entry.session.HasPayments() {
		return ErrSessionHasPayments
	}

	delete(s.sessions, tableID)
	s.metrics.SessionEnded()
	s.logger.Info("split discarded", "table_id", tableID)
	return nil
}

// Close aggregates the settled sub-accounts into one sale, records it,
// releases the table and announces the sale.
func (s *SplitService) Close(ctx context.Context, tableID string) (*CloseResult, error) {
	sale, date, err := s.closeSession(ctx, tableID)
	if err != nil {
		return nil, err
	}

	if _, err := s.tables.Release(ctx, tableID); err != nil {
		s.logger.Warn("sale recorded but table not released", "table_id", tableID, "sale_id", sale.ID, "error", err)
	}

	if err := s.publisher.PublishSaleClosed(ctx, events.NewSaleClosed(date, sale, s.now())); err != nil {
		s.logger.Warn("sale.closed event not published", "sale_id", sale.ID, "error", err)
	}

	result := &CloseResult{Sale: sale, BusinessDate: date}
	summary, err := s.sales.Daily(ctx, date)
	if err != nil {
		s.logger.Warn("daily total unavailable", "business_date", date, "error", err)
	} else {
		result.DailyTotal = summary.Total
	}
	return result, nil
}

func (s *SplitService) closeSession(ctx context.Context, tableID string) (*sales.Sale, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[tableID]
	if !ok {
		return nil, "", ErrNoSession
	}

	sale, err := entry.session.CloseAccount(s.now())
	if err != nil {
		s.recordRejection(tableID, err)
		return nil, "", err
	}

	date, err := s.sales.Record(ctx, sale)
	if err != nil {
		entry.session.Reopen()
		return nil, "", fmt.Errorf("close table %s: %w", tableID, err)
	}

	delete(s.sessions, tableID)
	s.metrics.SessionEnded()
	s.metrics.AccountClosed(string(sale.PaymentMethod), sale.Total)

	s.logger.Info("account closed",
		"table_id", tableID,
		"sale_id", sale.ID,
		"total", sale.Total,
		"method", sale.PaymentMethod,
		"cash", sale.CashPart,
		"transfer", sale.TransferPart,
		"card", sale.CardPart,
	)
	return sale, date, nil
}

// drop forgets a session without checks. Registered as the table release hook.
func (s *SplitService) drop(tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[tableID]; !ok {
		return
	}
	delete(s.sessions, tableID)
	s.metrics.SessionEnded()
	s.logger.Info("split dropped with table release", "table_id", tableID)
}

// guardOrder refuses order changes while the table has an open split.
// The session holds a snapshot of the order; discard it first.
func (s *SplitService) guardOrder(tableID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[tableID]; ok {
		return ErrSplitInProgress
	}
	return nil
}

// SessionCount returns how many splits are open.
func (s *SplitService) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SplitService) recordPayment(tableID string, session *splitbill.Session, tab splitbill.Tab) {
	p, ok := session.Payment(tab)
	if !ok {
		return
	}
	subtotal := session.Subtotal(tab)
	s.metrics.SubaccountPaid(string(p.Method), subtotal)
	s.logger.Info("subaccount paid",
		"table_id", tableID,
		"tab", tab,
		"subtotal", subtotal,
		"method", p.Method,
		"paid_count", session.PaidCount(),
	)
}

func (s *SplitService) recordRejection(tableID string, err error) {
	var rejection *splitbill.Rejection
	if !errors.As(err, &rejection) {
		return
	}
	s.metrics.Rejected(string(rejection.Reason))
	s.logger.Info("split operation rejected",
		"table_id", tableID,
		"reason", rejection.Reason,
		"tab", rejection.Tab,
	)
}

// DiscardIdle removes splits with nothing paid that have not been touched
// for maxIdle.
func (s *SplitService) DiscardIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for tableID, entry := range s.sessions {
		if entry.session.HasPayments() || !entry.lastTouched.Before(cutoff) {
			continue
		}
		delete(s.sessions, tableID)
		s.metrics.SessionEnded()
		removed++
		s.logger.Info("idle split discarded",
			"table_id", tableID,
			"opened_at", entry.openedAt,
			"last_touched", entry.lastTouched,
		)
	}
	return removed
}

// StartBackgroundCleanup periodically discards idle splits.
// Call StopBackgroundCleanup to stop it.
func (s *SplitService) StartBackgroundCleanup(checkInterval, maxIdle time.Duration) {
	s.cleanupStop = make(chan struct{})
	s.cleanupDone = make(chan struct{})

	go func() {
		defer close(s.cleanupDone)

		ticker := time.NewTicker(checkInterval)
		defer ticker.Stop()

		s.logger.Info("split cleanup started", "check_interval", checkInterval, "max_idle", maxIdle)

		for {
			select {
			case <-s.cleanupStop:
				s.logger.Info("split cleanup stopped")
				return
			case <-ticker.C:
				if removed := s.DiscardIdle(maxIdle); removed > 0 {
					s.logger.Debug("idle splits discarded", "count", removed)
				}
			}
		}
	}()
}

// StopBackgroundCleanup stops the cleanup goroutine and waits for it to exit.
func (s *SplitService) StopBackgroundCleanup() {
	if s.cleanupStop == nil {
		return
	}
	close(s.cleanupStop)
	<-s.cleanupDone
	s.cleanupStop = nil
}
