package auth

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, expiresIn time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", expiresIn)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestNewTokenService_DefaultExpiry(t *testing.T) {
	svc := newTestTokenService(t, 0)
	assert.Equal(t, 7*24*time.Hour, svc.ExpiresIn())
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID, "a@b.com")
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: userID, Email: "a@b.com"}, got)
}

func TestIssue_CarriesStandardClaims(t *testing.T) {
	svc := newTestTokenService(t, 2*time.Hour)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	token, err := svc.Issue(uuid.New(), "a@b.com")
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, fixed.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixed.Add(2*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestVerify_ExpiresAfterConfiguredDuration(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(uuid.New(), "a@b.com")
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	_, err = svc.Verify(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindTokenExpired))
	assert.Equal(t, InvalidTokenMessage, err.(*apperror.Error).Message)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, err := NewTokenService("right-secret", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService("wrong-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(uuid.New(), "a@b.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.True(t, apperror.Is(err, apperror.KindTokenInvalid))
}

func TestVerify_Malformed(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	for _, token := range []string{"", "not.a.jwt", "abc"} {
		_, err := svc.Verify(token)
		assert.True(t, apperror.Is(err, apperror.KindTokenInvalid), token)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	claims := Claims{
		UserID: uuid.NewString(),
		Email:  "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.True(t, apperror.Is(err, apperror.KindTokenInvalid))
}

func TestVerify_MissingIdentityClaims(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	claims := Claims{
		UserID: "not-a-uuid",
		Email:  "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.True(t, apperror.Is(err, apperror.KindTokenInvalid))
}

func TestVerify_RequiresExpiry(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	claims := Claims{UserID: uuid.NewString(), Email: "a@b.com"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.True(t, apperror.Is(err, apperror.KindTokenInvalid))
}

func TestKeyfunc_RejectsOtherHMACSizes(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	claims := Claims{
		UserID: uuid.NewString(),
		Email:  "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(token, &Claims{}, svc.Keyfunc)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestIdentityFromToken_RequiresExpiry(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: uuid.NewString(), Email: "a@b.com"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(signed, &Claims{}, svc.Keyfunc)
	require.NoError(t, err)

	_, err = svc.IdentityFromToken(parsed)
	assert.True(t, apperror.Is(err, apperror.KindTokenInvalid))
}
