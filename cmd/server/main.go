package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	// Token service refuses an empty secret
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		slog.Error("JWT_SECRET environment variable is required", "error", err)
		os.Exit(1)
	}
	if !cfg.HasDatabase() {
		slog.Error("DATABASE_URL or DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout, cfg.LogLevel),
		pgLogHandler,
	)))

	logging.StartCleanup(ctx, db, cfg.LogRetentionDays)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	// Services
	authService := services.NewAuthService(store.NewUserStore(db), auth.NewBcryptHasher(), tokens, recorder)
	historyService := services.NewHistoryService(store.NewHistoryStore(db), recorder)

	app := newApp(cfg, recorder)
	routes.Setup(app, routes.Deps{
		Tokens:         tokens,
		Validator:      validation.New(),
		Recorder:       recorder,
		Gatherer:       registry,
		AuthHandler:    handlers.NewAuthHandler(authService),
		HistoryHandler: handlers.NewHistoryHandler(historyService),
		HealthHandler: handlers.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")
	shutdown(app, db, pgLogHandler, stop, cfg.ShutdownTimeout)
	slog.Info("server stopped")
}

func newApp(cfg *config.Config, recorder metrics.Recorder) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(cfg.IsDevelopment()),
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.Metrics(recorder))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	return app
}

func shutdown(app *fiber.App, db *gorm.DB, pgLogHandler *logging.PGHandler, stop context.CancelFunc, timeout time.Duration) {
	// In-flight requests get the grace window, then connections are closed.
	if err := app.ShutdownWithTimeout(timeout); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stop()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}
}
