package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GabRuby/calcTacos/internal/api"
	"github.com/GabRuby/calcTacos/internal/application/service"
	"github.com/GabRuby/calcTacos/internal/infrastructure/config"
	"github.com/GabRuby/calcTacos/internal/infrastructure/logging"
)

// splitCleanupInterval is how often idle splits are looked for.
const splitCleanupInterval = 30 * time.Minute

// RunServe runs the API server.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	// Set up logging
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLogger(loggingCfg)

	app, err := Bootstrap(context.Background(), cfg, logger, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close failed", slog.Any("error", err))
		}
	}()

	app.Splits.StartBackgroundCleanup(splitCleanupInterval, service.DefaultSessionIdleTimeout)
	defer app.Splits.StopBackgroundCleanup()

	// Create API config
	apiCfg := api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if flags.Port != 0 {
		apiCfg.Port = flags.Port
	}
	if cfg.Metrics.Enabled {
		apiCfg.MetricsPath = cfg.Metrics.Path
	}

	services := api.Services{
		Menu:   app.Menu,
		Tables: app.Tables,
		Splits: app.Splits,
		Sales:  app.Sales,
	}
	server := api.NewServer(apiCfg, services, app.Metrics, logger.With("system", "api"))

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	logger.Info("calcTacos ready",
		"business", cfg.Business.Name,
		"port", apiCfg.Port,
		"driver", cfg.Storage.Driver,
	)

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	if n := app.Splits.SessionCount(); n > 0 {
		logger.Warn("open splits discarded on shutdown", "count", n)
	}
	logger.Info("server stopped")
	return nil
}
