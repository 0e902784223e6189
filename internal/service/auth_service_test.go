package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snapdish/internal/auth"
	"snapdish/internal/config"
	"snapdish/internal/event"
	"snapdish/internal/hashing"
	"snapdish/internal/store"
)

func newTestService(t *testing.T) (*AuthService, *store.MemoryStore) {
	t.Helper()

	cfg := &config.Config{Environment: "test"}
	logger := zap.NewNop()

	hasher, err := hashing.NewHasher(cfg)
	require.NoError(t, err)

	users := store.NewMemoryStore()
	sessions := auth.NewSessions("test-secret", time.Hour)
	provider := auth.NewProvider(users, hasher, sessions, logger)
	publisher := event.NewPublisher(cfg, logger)

	return NewAuthService(users, hasher, provider, publisher, logger), users
}

func TestSignup_Success(t *testing.T) {
	svc, users := newTestService(t)

	user, err := svc.Signup(context.Background(), &SignupRequest{
		Email:    "Test@Example.com",
		Password: "TestPass123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "TestPass123", user.HashedPassword)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, 1, users.Len())
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &SignupRequest{Email: "test@example.com", Password: "TestPass123"})
	require.NoError(t, err)

	// Same address with different casing is still a duplicate.
	_, err = svc.Signup(ctx, &SignupRequest{Email: "TEST@EXAMPLE.COM", Password: "OtherPass456"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Equal(t, 1, users.Len())
}

func TestSignup_RejectsInvalidInput(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &SignupRequest{Email: "not-an-email", Password: "TestPass123"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Signup(ctx, &SignupRequest{Email: "test@example.com", Password: "weak"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 0, users.Len())
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, &SignupRequest{Email: "test@example.com", Password: "TestPass123"})
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "Test@Example.com", "TestPass123", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &SignupRequest{Email: "test@example.com", Password: "TestPass123"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "test@example.com", "WrongPass123", "1.2.3.4")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "TestPass123", "1.2.3.4")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHealthCheck(t *testing.T) {
	svc, _ := newTestService(t)
	assert.NoError(t, svc.HealthCheck(context.Background()))
}
