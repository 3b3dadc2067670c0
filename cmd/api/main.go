// Package main is the entrypoint for the extraction API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mcextract/mcextract/internal/config"
	"github.com/mcextract/mcextract/internal/handler"
	"github.com/mcextract/mcextract/internal/mc"
	"github.com/mcextract/mcextract/internal/metrics"
	"github.com/mcextract/mcextract/internal/middleware"
	"github.com/mcextract/mcextract/internal/server"
	"github.com/mcextract/mcextract/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize Marketing Cloud client
	recorder := metrics.NewInMemory()
	client := mc.New(mc.Options{
		Endpoints: mc.Endpoints{
			AuthBase: cfg.MCAuthBaseURL,
			RESTBase: cfg.MCRESTBaseURL,
			SOAPBase: cfg.MCSOAPBaseURL,
		},
		Timeout:   cfg.MCRequestTimeout,
		RateLimit: cfg.MCRateLimitRPS,
		Burst:     cfg.MCRateLimitBurst,
		Logger:    logger,
		Metrics:   recorder,
	})

	// Initialize services
	extractor := service.NewExtractor(client, logger, recorder, service.Options{
		PageSize:          cfg.MCPageSize,
		AutomationWorkers: cfg.MCAutomationWorkers,
		ActivityWorkers:   cfg.MCActivityWorkers,
	})

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler()
	loginHandler := handler.NewLoginHandler(client, logger)
	extractHandler := handler.NewExtractHandler(extractor, logger)
	metricsHandler := handler.NewMetricsHandler(recorder)

	// Setup router
	r := setupRouter(h, healthHandler, loginHandler, extractHandler, metricsHandler, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("mc client", func(ctx context.Context) error {
		client.CloseIdleConnections()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	loginHandler *handler.LoginHandler,
	extractHandler *handler.ExtractHandler,
	metricsHandler *handler.MetricsHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Metrics endpoint
	r.Get("/metrics", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", h.Hello)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", loginHandler.Login)
		r.Get("/extract/{type}", extractHandler.Extract)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
