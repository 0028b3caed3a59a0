package routes

import (
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
)

type Deps struct {
	Tokens    *auth.TokenService
	Validator *validation.Validator
	Recorder  metrics.Recorder
	// Gatherer backs GET /metrics; nil leaves the endpoint unregistered.
	Gatherer prometheus.Gatherer

	AuthHandler    *handlers.AuthHandler
	HistoryHandler *handlers.HistoryHandler
	HealthHandler  *handlers.HealthHandler
}

func Setup(app *fiber.App, d Deps) {
	app.Get("/health", d.HealthHandler.Check)
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(d.Gatherer)))
	}

	api := app.Group("/api")

	// Auth: public
	api.Post("/login", middleware.Validate[dto.LoginRequest](d.Validator), d.AuthHandler.Login)
	api.Post("/register", middleware.Validate[dto.RegisterRequest](d.Validator), d.AuthHandler.Register)

	// History: bearer token first, then body validation
	history := api.Group("/history", middleware.Scoped("/api/history", middleware.JWTProtected(d.Tokens, d.Recorder)))
	history.Get("/", d.HistoryHandler.List)
	history.Get("/:id", d.HistoryHandler.Get)
	history.Post("/", middleware.Validate[dto.CreateHistoryRequest](d.Validator), d.HistoryHandler.Create)
	history.Delete("/", middleware.Validate[dto.DeleteHistoryRequest](d.Validator), d.HistoryHandler.Delete)

	app.Use(middleware.NotFound())
}
