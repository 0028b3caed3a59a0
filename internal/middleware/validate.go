package middleware

import (
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type payloadKey struct{}

// Validate decodes the request body into T and checks it before the handler
// runs. Schema violations are answered here with 400; anything else that goes
// wrong while decoding is passed to the error handler.
func Validate[T any](v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := new(T)
		var fields []apperror.FieldError
		if err := validation.Decode(c.App().Config().JSONDecoder, c.Body(), payload); err != nil {
			e, ok := apperror.As(err)
			if !ok || e.Kind != apperror.KindValidation {
				return err
			}
			// The rest of the body still decoded; report its violations too.
			fields = e.Fields
		}
		if fields = validation.Merge(fields, v.Struct(payload)); len(fields) > 0 {
			return validationFailed(c, fields)
		}
		c.Locals(payloadKey{}, payload)
		return c.Next()
	}
}

// Payload returns the body Validate stored for this request.
func Payload[T any](c *fiber.Ctx) (*T, bool) {
	p, ok := c.Locals(payloadKey{}).(*T)
	return p, ok
}

func validationFailed(c *fiber.Ctx, fields []apperror.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Response{
		Success: false,
		Message: "Validation error",
		Errors:  fields,
	})
}
