package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"snapdish/internal/client"
	"snapdish/internal/model"
	"snapdish/internal/util"
)

const userKeyPrefix = "user:"

// RedisStore persists user records as JSON values keyed by normalized
// email. SETNX is the conditional put that enforces email uniqueness.
type RedisStore struct {
	client *client.RedisClient
	logger *zap.Logger
}

func NewRedisStore(redisClient *client.RedisClient, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: redisClient, logger: logger}
}

func userKey(email string) string {
	return userKeyPrefix + model.NormalizeEmail(email)
}

func (s *RedisStore) Get(ctx context.Context, email string) (*model.User, error) {
	raw, err := s.client.Get(ctx, userKey(email))
	if err != nil {
		if errors.Is(err, client.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("corrupt user record for %s: %w", userKey(email), err)
	}

	return &user, nil
}

func (s *RedisStore) Create(ctx context.Context, user *model.User) error {
	copied := *user
	copied.Email = model.NormalizeEmail(user.Email)

	payload, err := json.Marshal(&copied)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	// No TTL: user records are permanent.
	created, err := s.client.SetNX(ctx, userKey(copied.Email), payload, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !created {
		return ErrDuplicate
	}

	util.Debug("User record created",
		zap.String("backend", string(BackendRedis)),
		zap.String("user_id", copied.ID))
	return nil
}

func (s *RedisStore) UpdateLastLogin(ctx context.Context, email string, t time.Time) error {
	user, err := s.Get(ctx, email)
	if err != nil {
		return err
	}

	ts := t
	user.LastLogin = &ts

	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	if err := s.client.Set(ctx, userKey(email), payload, 0); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.HealthCheck(ctx)
}
