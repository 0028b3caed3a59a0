package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// InvalidTokenMessage is the only verification failure text clients ever see.
const InvalidTokenMessage = "Invalid or expired token"

var ErrMissingSecret = errors.New("JWT_SECRET is not defined")

// Claims is the signed token payload: identity plus iat/exp.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokenService(secret string, expiresIn time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if expiresIn <= 0 {
		expiresIn = 7 * 24 * time.Hour
	}
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}, nil
}

func (s *TokenService) ExpiresIn() time.Duration { return s.expiresIn }

// Issue signs an HS256 token for the given user.
func (s *TokenService) Issue(userID uuid.UUID, email string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Failures are *apperror.Error tagged TokenExpired or TokenInvalid.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, s.Classify(err)
	}
	return s.IdentityFromToken(token)
}

// Keyfunc resolves the HMAC secret and rejects every algorithm but HS256.
// The auth gate parses with it directly, so it must enforce the same method
// restriction Verify does.
func (s *TokenService) Keyfunc(t *jwt.Token) (interface{}, error) {
	if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("%w: unexpected signing method %q", jwt.ErrTokenSignatureInvalid, t.Header["alg"])
	}
	return s.secret, nil
}

// IdentityFromToken extracts the identity from an already parsed token.
func (s *TokenService) IdentityFromToken(token *jwt.Token) (Identity, error) {
	if token == nil || !token.Valid {
		return Identity{}, s.Classify(jwt.ErrTokenUnverifiable)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Identity{}, s.Classify(jwt.ErrTokenInvalidClaims)
	}
	if claims.ExpiresAt == nil {
		return Identity{}, s.Classify(fmt.Errorf("%w: exp claim is required", jwt.ErrTokenInvalidClaims))
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil || claims.Email == "" {
		return Identity{}, s.Classify(fmt.Errorf("%w: missing identity", jwt.ErrTokenInvalidClaims))
	}
	return Identity{ID: id, Email: claims.Email}, nil
}

// Classify tags a parse failure. Both kinds share the generic message;
// only logs and the error mapper distinguish them.
func (s *TokenService) Classify(err error) *apperror.Error {
	if e, ok := apperror.As(err); ok && (e.Kind == apperror.KindTokenExpired || e.Kind == apperror.KindTokenInvalid) {
		return e
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperror.Wrap(apperror.KindTokenExpired, InvalidTokenMessage, err)
	}
	return apperror.Wrap(apperror.KindTokenInvalid, InvalidTokenMessage, err)
}
