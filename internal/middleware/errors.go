package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

const internalErrorMessage = "Internal server error"

// mapped is the client-facing rendering of an error.
type mapped struct {
	status  int
	message string
	fields  []apperror.FieldError
	kind    apperror.Kind
}

func mapError(err error, dev bool) mapped {
	if e, ok := apperror.As(err); ok {
		m := mapped{status: e.StatusCode(), message: e.Message, fields: e.Fields, kind: e.Kind}
		switch e.Kind {
		case apperror.KindTokenInvalid:
			m.message = "Invalid token"
		case apperror.KindTokenExpired:
			m.message = "Token has expired"
		}
		if m.message == "" {
			m.message = internalErrorMessage
		}
		return m
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return mapped{status: fe.Code, message: fe.Message, kind: apperror.KindInternal}
	}

	m := mapped{status: fiber.StatusInternalServerError, message: internalErrorMessage, kind: apperror.KindInternal}
	// Raw driver and library errors only reach clients in development.
	if dev && err.Error() != "" {
		m.message = err.Error()
	}
	return m
}

// statusOf is the response status mapError would choose for err.
func statusOf(err error) int {
	return mapError(err, false).status
}

// ErrorHandler is the fiber ErrorHandler: every error that escapes a handler
// is logged, 5xx are reported to Sentry, and the client gets the envelope.
func ErrorHandler(dev bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		m := mapError(err, dev)

		attrs := []any{
			"trace_id", traceID(c),
			"method", c.Method(),
			"path", c.Path(),
			"status", m.status,
			"kind", m.kind.String(),
			"error", err.Error(),
		}
		if id, ok := auth.IdentityFrom(c); ok {
			attrs = append(attrs, "user_id", id.ID.String())
		}

		if m.status >= fiber.StatusInternalServerError {
			slog.Error("request failed", attrs...)
			if hub := sentryfiber.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
		} else {
			slog.Warn("request rejected", attrs...)
		}

		resp := dto.Response{Success: false, Message: m.message, Errors: m.fields}
		if dev {
			resp.Stack = fmt.Sprintf("%+v\n\n%s", err, debug.Stack())
		}
		return c.Status(m.status).JSON(resp)
	}
}

// NotFound answers any request no route matched. Register it last.
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail(fmt.Sprintf("Route %s not found", c.OriginalURL())))
	}
}

func traceID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
