package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if !cfg.HasDatabase() {
		slog.Error("DATABASE_URL or DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	slog.Info("starting seed")
	if _, err := database.Seed(ctx, db, auth.NewBcryptHasher()); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed complete", "email", database.SeedEmail, "password", database.SeedPassword)
}
