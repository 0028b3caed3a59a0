package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Identity is the authenticated caller, valid for a single request.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type identityKey struct{}

// SetIdentity attaches the caller to the request.
func SetIdentity(c *fiber.Ctx, id Identity) {
	c.Locals(identityKey{}, id)
}

// IdentityFrom returns the caller attached by the auth gate.
func IdentityFrom(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityKey{}).(Identity)
	return id, ok
}
