package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/metrics"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	MissingTokenMessage = "No token provided or invalid token format"

	bearerPrefix    = "Bearer "
	tokenContextKey = "jwt"
)

// JWTProtected admits requests that carry a valid "Bearer <token>" header
// and attaches the caller's identity for downstream handlers.
func JWTProtected(tokens *auth.TokenService, rec metrics.Recorder) fiber.Handler {
	gate := jwtware.New(jwtware.Config{
		KeyFunc:    tokens.Keyfunc,
		Claims:     &auth.Claims{},
		ContextKey: tokenContextKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals(tokenContextKey).(*jwt.Token)
			id, err := tokens.IdentityFromToken(token)
			if err != nil {
				return rejectToken(c, rec, err)
			}
			auth.SetIdentity(c, id)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return unauthenticated(c, rec, MissingTokenMessage)
			}
			return rejectToken(c, rec, tokens.Classify(err))
		},
	})

	return func(c *fiber.Ctx) error {
		// jwtware matches the scheme case-insensitively; only the exact form is accepted here.
		if !strings.HasPrefix(c.Get(fiber.HeaderAuthorization), bearerPrefix) {
			return unauthenticated(c, rec, MissingTokenMessage)
		}
		return gate(c)
	}
}

func rejectToken(c *fiber.Ctx, rec metrics.Recorder, err error) error {
	slog.Debug("bearer token rejected",
		"trace_id", traceID(c),
		"path", c.Path(),
		"kind", apperror.KindOf(err).String(),
		"expired", apperror.Is(err, apperror.KindTokenExpired),
		"error", err.Error(),
	)
	message := auth.InvalidTokenMessage
	if e, ok := apperror.As(err); ok && e.Message != "" {
		message = e.Message
	}
	return unauthenticated(c, rec, message)
}

func unauthenticated(c *fiber.Ctx, rec metrics.Recorder, message string) error {
	rec.RecordAuthEvent(metrics.EventTokenRejected)
	return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(message))
}

// Scoped runs h only for prefix itself and paths below it. Fiber's group
// prefix also matches siblings such as /api/historyfoo; those skip h.
func Scoped(prefix string, h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return h(c)
		}
		return c.Next()
	}
}
