package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GabRuby/calcTacos/internal/api/handlers"
	"github.com/GabRuby/calcTacos/internal/api/middleware"
	"github.com/GabRuby/calcTacos/internal/application/service"
	"github.com/GabRuby/calcTacos/internal/observability"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	// MetricsPath mounts the Prometheus handler when set and metrics are given.
	MetricsPath string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: middleware.DefaultCORSConfig().AllowedOrigins,
		MetricsPath:    "/metrics",
	}
}

// Services are the application services the API exposes.
type Services struct {
	Menu   *service.MenuService
	Tables *service.TableService
	Splits *service.SplitService
	Sales  *service.SalesService
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	services   Services
	metrics    *observability.Metrics
}

// NewServer creates a new API server. metrics may be nil.
func NewServer(cfg Config, services Services, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		metrics:  metrics,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// CORS
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	// Request logging
	s.router.Use(middleware.Logging(s.logger))

	if s.metrics != nil {
		s.router.Use(middleware.Metrics(s.metrics))
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler(s.services.Splits.SessionCount)
	s.router.Get("/health", healthHandler.ServeHTTP)

	if s.metrics != nil && s.config.MetricsPath != "" {
		s.router.Handle(s.config.MetricsPath, s.metrics.Handler())
	}

	menuHandler := handlers.NewMenuHandler(s.services.Menu, s.logger)
	tablesHandler := handlers.NewTablesHandler(s.services.Tables, s.services.Menu, s.logger)
	splitsHandler := handlers.NewSplitsHandler(s.services.Splits, s.logger)
	salesHandler := handlers.NewSalesHandler(s.services.Sales, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Menu
		r.Get("/menu", menuHandler.List)
		r.Put("/menu/{id}", menuHandler.Put)
		r.Delete("/menu/{id}", menuHandler.Delete)

		// Tables
		r.Get("/tables", tablesHandler.List)
		r.Post("/tables", tablesHandler.Create)
		r.Route("/tables/{id}", func(r chi.Router) {
			r.Get("/", tablesHandler.Get)
			r.Patch("/", tablesHandler.Update)
			r.Delete("/", tablesHandler.Delete)
			r.Post("/start", tablesHandler.Start)
			r.Put("/order", tablesHandler.UpdateOrder)
			r.Post("/release", tablesHandler.Release)

			// Split bill
			r.Route("/split", func(r chi.Router) {
				r.Post("/", splitsHandler.Open)
				r.Get("/", splitsHandler.Get)
				r.Delete("/", splitsHandler.Discard)
				r.Post("/tabs", splitsHandler.AddTab)
				r.Put("/tabs/{tab}/items/{itemID}", splitsHandler.Allocate)
				r.Put("/tabs/{tab}/payment", splitsHandler.SetPayment)
				r.Post("/tabs/{tab}/pay", splitsHandler.Pay)
				r.Get("/tabs/{tab}/receipt", splitsHandler.TabReceipt)
				r.Get("/receipt", splitsHandler.Receipt)
				r.Post("/close", splitsHandler.Close)
			})
		})

		// Daily sales
		r.Get("/sales/dates", salesHandler.Dates)
		r.Get("/sales/daily", salesHandler.Daily)
		r.Get("/sales/daily/export", salesHandler.Export)
		r.Post("/sales/daily/import", salesHandler.Import)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
