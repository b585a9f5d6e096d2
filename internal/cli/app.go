package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GabRuby/calcTacos/internal/application/service"
	"github.com/GabRuby/calcTacos/internal/domain/money"
	"github.com/GabRuby/calcTacos/internal/domain/sales"
	"github.com/GabRuby/calcTacos/internal/infrastructure/config"
	"github.com/GabRuby/calcTacos/internal/infrastructure/events"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage/postgres"
	"github.com/GabRuby/calcTacos/internal/observability"
)

// App is the wired application shared by the commands.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Repo      storage.Repository
	Publisher events.Publisher
	Metrics   *observability.Metrics
	Formatter *money.Formatter

	Menu   *service.MenuService
	Tables *service.TableService
	Sales  *service.SalesService
	Splits *service.SplitService
}

// OpenRepository opens the configured storage backend.
func OpenRepository(ctx context.Context, cfg config.StorageConfig) (storage.Repository, error) {
	switch cfg.Driver {
	case "", "sqlite":
		store, err := storage.NewStorage(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("storage driver postgres needs postgres_dsn")
		}
		store, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// BuildCalendar turns the configured working hours into a business calendar.
func BuildCalendar(cfg config.BusinessConfig) (*sales.Calendar, error) {
	hours := make([]sales.WorkingHours, 0, len(cfg.WorkingHours))
	for _, wh := range cfg.WorkingHours {
		day, err := sales.ParseWeekday(wh.Day)
		if err != nil {
			return nil, err
		}
		hours = append(hours, sales.WorkingHours{
			Day:       day,
			OpenTime:  wh.OpenTime,
			CloseTime: wh.CloseTime,
			IsClosed:  wh.IsClosed,
		})
	}
	return sales.NewCalendar(cfg.Location(), hours), nil
}

// Bootstrap opens storage and builds the services. withEvents connects the
// broker when events are enabled; read-only commands pass false.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger, withEvents bool) (*App, error) {
	calendar, err := BuildCalendar(cfg.Business)
	if err != nil {
		return nil, fmt.Errorf("working hours: %w", err)
	}

	repo, err := OpenRepository(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Repo:      repo,
		Publisher: events.NopPublisher{},
		Formatter: money.NewFormatter(cfg.Business.CurrencyCode, cfg.Business.Locale),
	}
	if cfg.Metrics.Enabled {
		app.Metrics = observability.NewMetrics()
	}

	if withEvents && cfg.Events.Enabled {
		publisher, err := events.DialAMQP(cfg.Events.AMQPURL, cfg.Events.Exchange, logger.With("system", "events"))
		if err != nil {
			_ = repo.Close()
			return nil, err
		}
		app.Publisher = publisher
	}

	app.Menu = service.NewMenuService(repo, logger.With("system", "menu"))
	app.Tables = service.NewTableService(repo, app.Menu, logger.With("system", "tables"))
	app.Sales = service.NewSalesService(repo, app.Menu, calendar, logger.With("system", "ledger"))
	app.Splits = service.NewSplitService(app.Tables, app.Menu, app.Sales, app.Publisher, app.Metrics, app.Formatter, logger.With("system", "split"))

	if _, err := app.Menu.Seed(ctx, cfg.Menu.SeedFile); err != nil {
		_ = app.Close()
		return nil, err
	}

	logger.Debug("application ready",
		"driver", cfg.Storage.Driver,
		"events", withEvents && cfg.Events.Enabled,
		"metrics", cfg.Metrics.Enabled,
		"time_zone", calendar.Location().String(),
	)
	return app, nil
}

// Close releases the broker connection and storage.
func (a *App) Close() error {
	pubErr := a.Publisher.Close()
	repoErr := a.Repo.Close()
	if pubErr != nil {
		return pubErr
	}
	return repoErr
}
