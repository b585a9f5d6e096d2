package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GabRuby/calcTacos/internal/domain/payment"
	"github.com/GabRuby/calcTacos/internal/domain/sales"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage"
)

// ImportResult reports what an import added.
type ImportResult struct {
	Date    string             `json:"date"`
	Added   int                `json:"added"`
	Summary sales.DailySummary `json:"summary"`
}

// SalesService is the daily sales ledger.
type SalesService struct {
	repo     storage.SalesRepository
	menu     *MenuService
	calendar *sales.Calendar
	logger   *slog.Logger
	now      func() time.Time
}

// NewSalesService creates a new sales service.
func NewSalesService(repo storage.SalesRepository, menuSvc *MenuService, calendar *sales.Calendar, logger *slog.Logger) *SalesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SalesService{
		repo:     repo,
		menu:     menuSvc,
		calendar: calendar,
		logger:   logger,
		now:      time.Now,
	}
}

// Today returns the current business date.
func (s *SalesService) Today() string {
	return s.calendar.BusinessDate(s.now())
}

// BusinessDate returns the business date a sale made at t belongs to.
func (s *SalesService) BusinessDate(t time.Time) string {
	return s.calendar.BusinessDate(t)
}

// Record appends a sale to the ledger under its business date.
func (s *SalesService) Record(ctx context.Context, sale *sales.Sale) (string, error) {
	date := s.calendar.BusinessDate(sale.Timestamp)
	if err := s.repo.SaveSale(ctx, date, sale); err != nil {
		return "", fmt.Errorf("record sale %s: %w", sale.ID, err)
	}
	s.logger.Info("sale recorded",
		"sale_id", sale.ID,
		"table", sale.TableNumber,
		"total", sale.Total,
		"method", sale.PaymentMethod,
		"business_date", date,
	)
	return date, nil
}

// Daily builds the summary for a business date; an empty date means today.
func (s *SalesService) Daily(ctx context.Context, date string) (sales.DailySummary, error) {
	if date == "" {
		date = s.Today()
	} else if _, err := time.Parse(sales.DateLayout, date); err != nil {
		return sales.DailySummary{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	daySales, err := s.repo.ListSales(ctx, date)
	if err != nil {
		return sales.DailySummary{}, fmt.Errorf("list sales for %s: %w", date, err)
	}
	catalog, err := s.menu.Catalog(ctx)
	if err != nil {
		return sales.DailySummary{}, err
	}
	return sales.Summarize(date, daySales, catalog), nil
}

// Dates lists the business dates with recorded sales, newest first.
func (s *SalesService) Dates(ctx context.Context) ([]string, error) {
	dates, err := s.repo.ListSaleDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sale dates: %w", err)
	}
	return dates, nil
}

// Export returns the day's summary as indented JSON and its file name.
func (s *SalesService) Export(ctx context.Context, date string) ([]byte, string, error) {
	summary, err := s.Daily(ctx, date)
	if err != nil {
		return nil, "", err
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode export: %w", err)
	}
	return data, sales.ExportFilename(summary.Date), nil
}

// Import merges an exported summary into the ledger. Sales already recorded
// (same ID) are skipped; the summary is recomputed from the merged sales.
func (s *SalesService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	var imported sales.DailySummary
	if err := json.Unmarshal(data, &imported); err != nil {
		return nil, fmt.Errorf("%w: not a daily sales export: %v", ErrInvalidInput, err)
	}
	if _, err := time.Parse(sales.DateLayout, imported.Date); err != nil {
		return nil, fmt.Errorf("%w: export has no valid date", ErrInvalidInput)
	}

	existing, err := s.repo.ListSales(ctx, imported.Date)
	if err != nil {
		return nil, fmt.Errorf("list sales for %s: %w", imported.Date, err)
	}

	added := 0
	for _, sale := range sales.MergeImported(existing, imported.Sales) {
		if _, err := payment.ParseMethod(string(sale.PaymentMethod)); err != nil {
			sale.PaymentMethod = payment.Unspecified
		}
		err := s.repo.SaveSale(ctx, imported.Date, &sale)
		if errors.Is(err, storage.ErrDuplicateSale) {
			// Recorded under another date
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("import sale %s: %w", sale.ID, err)
		}
		added++
	}

	summary, err := s.Daily(ctx, imported.Date)
	if err != nil {
		return nil, err
	}

	s.logger.Info("sales imported", "date", imported.Date, "added", added, "total", summary.Total)
	return &ImportResult{Date: imported.Date, Added: added, Summary: summary}, nil
}
