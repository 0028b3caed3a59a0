package auth

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the 10 salt rounds existing hashes were created with.
const DefaultCost = 10

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// BcryptHasher salts every hash; the salt and cost travel inside the hash string.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: DefaultCost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.Cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperror.Wrap(apperror.KindBadRequest, "Password must be at most 72 bytes", err)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify never errors; malformed hashes and mismatches both report false.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
