package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"snapdish/internal/hashing"
	"snapdish/internal/model"
	"snapdish/internal/store"
	"snapdish/internal/util"
)

// ErrInvalidCredentials covers both wrong-password and no-such-user so
// responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Provider authenticates email+password credentials against the user
// store and issues session tokens.
type Provider struct {
	users    store.Store
	hasher   *hashing.Hasher
	sessions *Sessions
	logger   *zap.Logger
}

func NewProvider(users store.Store, hasher *hashing.Hasher, sessions *Sessions, logger *zap.Logger) *Provider {
	return &Provider{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		logger:   logger,
	}
}

// Authenticate verifies the credentials and returns the user with a
// fresh session token. A lookup miss still pays for one full-cost hash
// comparison so the two failure paths take comparable time.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	normalized := model.NormalizeEmail(email)

	user, err := p.users.Get(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			p.hasher.DummyCompare(password)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !p.hasher.Verify(password, user.HashedPassword) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := p.sessions.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	// Best effort: a failed bookkeeping write must not fail the login.
	go p.recordLogin(user.Email)

	return user, token, nil
}

func (p *Provider) recordLogin(email string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.users.UpdateLastLogin(ctx, email, time.Now().UTC()); err != nil {
		p.logger.Warn("Failed to update last login", util.ErrorField(err))
	}
}
