package auth

import (
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_DefaultCost(t *testing.T) {
	h := NewBcryptHasher()

	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}

	first, err := h.Hash("secret1")
	require.NoError(t, err)
	second, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("secret1", first))
	assert.True(t, h.Verify("secret1", second))
}

func TestBcryptHasher_Verify(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.False(t, h.Verify("secret2", hash))
	assert.False(t, h.Verify("", hash))
	assert.False(t, h.Verify("secret1", "not-a-bcrypt-hash"))
}

func TestBcryptHasher_TooLong(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}

	_, err := h.Hash(strings.Repeat("x", 73))
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
}
