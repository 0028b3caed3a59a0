package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

const healthPingTimeout = 2 * time.Second

// Pinger reports whether the database answers.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping Pinger
}

func NewHealthHandler(ping Pinger) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthPingTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			slog.Warn("health check database ping failed", "error", err)
			dbStatus = "unhealthy"
		}
	}

	return c.JSON(dto.HealthResponse{
		Success:   true,
		Message:   "Server is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Database:  dbStatus,
	})
}
