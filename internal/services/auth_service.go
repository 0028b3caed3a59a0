package services

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/store"
	"github.com/google/uuid"
)

const (
	invalidCredentialsMessage = "Invalid email or password"
	emailTakenMessage         = "User with this email already exists"
)

var (
	ErrInvalidCredentials = apperror.Unauthenticated(invalidCredentialsMessage)
	ErrEmailTaken         = apperror.New(apperror.KindConflict, emailTakenMessage)
)

type AuthService struct {
	users   store.UserStore
	hasher  auth.PasswordHasher
	tokens  *auth.TokenService
	metrics metrics.Recorder
	// dummyHash is compared against when the email is unknown so both
	// login failure paths cost one hash comparison.
	dummyHash string
}

func NewAuthService(users store.UserStore, hasher auth.PasswordHasher, tokens *auth.TokenService, rec metrics.Recorder) *AuthService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		slog.Warn("failed to prepare login timing hash", "error", err)
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, metrics: rec, dummyHash: dummy}
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email, password := *req.Email, *req.Password

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.metrics.RecordAuthEvent(metrics.EventLoginFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.Password) {
		s.metrics.RecordAuthEvent(metrics.EventLoginFailure)
		return nil, ErrInvalidCredentials
	}

	s.metrics.RecordAuthEvent(metrics.EventLoginSuccess)
	return s.respond(user)
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email, password := *req.Email, *req.Password

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if apperror.Is(err, apperror.KindConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID.String())
	s.metrics.RecordAuthEvent(metrics.EventRegister)
	return s.respond(user)
}

func (s *AuthService) respond(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
		},
	}, nil
}
