package middleware

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records count and latency per route template, so path
// parameters do not explode label cardinality.
func Metrics(rec metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		rec.RecordRequest(c.Method(), routeLabel(c), status, time.Since(start))
		return err
	}
}

func routeLabel(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
		return r.Path
	}
	return "unmatched"
}
