// Package service holds the business logic behind the signup and login
// endpoints.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snapdish/internal/auth"
	"snapdish/internal/event"
	"snapdish/internal/hashing"
	"snapdish/internal/model"
	"snapdish/internal/store"
	"snapdish/internal/util"
	"snapdish/internal/validate"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidCredentials = auth.ErrInvalidCredentials
)

// SignupRequest carries the verified client input for account creation.
type SignupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	ClientAddr string `json:"-"`
}

// AuthService orchestrates the user store, hasher, credentials provider
// and event stream.
type AuthService struct {
	users     store.Store
	hasher    *hashing.Hasher
	provider  *auth.Provider
	publisher *event.Publisher
	logger    *zap.Logger
}

func NewAuthService(
	users store.Store,
	hasher *hashing.Hasher,
	provider *auth.Provider,
	publisher *event.Publisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
	}
}

// Signup creates a new user. Exactly one store write happens on
// success; every rejection path leaves the store untouched.
func (s *AuthService) Signup(ctx context.Context, req *SignupRequest) (*model.User, error) {
	startTime := time.Now()

	// The handler validates before calling; re-check the essentials so
	// the service is safe to call from other entry points.
	if !validate.ValidateEmail(req.Email) || !validate.ValidatePassword(req.Password) {
		return nil, ErrInvalidInput
	}

	normalized := model.NormalizeEmail(req.Email)

	// Friendly duplicate check before paying for a hash. The create
	// below is conditional, so a racing signup still cannot slip in.
	_, err := s.users.Get(ctx, normalized)
	switch {
	case err == nil:
		return nil, ErrUserAlreadyExists
	case errors.Is(err, store.ErrNotFound):
		// expected
	case errors.Is(err, store.ErrUnavailable):
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	default:
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:             uuid.New().String(),
		Email:          normalized,
		HashedPassword: hashed,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, ErrUserAlreadyExists
		case errors.Is(err, store.ErrUnavailable):
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		default:
			return nil, err
		}
	}

	s.publisher.Publish(ctx, event.TypeSignup, user.ID, user.Email, req.ClientAddr)

	s.logger.Info("User signed up",
		util.String("user_id", user.ID),
		util.Duration("duration", time.Since(startTime)))

	return user, nil
}

// Login authenticates the credentials and returns the user plus a
// session token. Both wrong-password and unknown-email surface as
// ErrInvalidCredentials after comparable work.
func (s *AuthService) Login(ctx context.Context, email, password, clientAddr string) (*model.User, string, error) {
	user, token, err := s.provider.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.publisher.Publish(ctx, event.TypeLoginFailed, "", email, clientAddr)
			return nil, "", ErrInvalidCredentials
		}
		if errors.Is(err, store.ErrUnavailable) {
			return nil, "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		return nil, "", err
	}

	s.publisher.Publish(ctx, event.TypeLogin, user.ID, user.Email, clientAddr)

	return user, token, nil
}

// HealthCheck verifies the user store is reachable.
func (s *AuthService) HealthCheck(ctx context.Context) error {
	return s.users.HealthCheck(ctx)
}
