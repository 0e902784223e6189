package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"go.uber.org/zap"

	"snapdish/internal/bucketing"
	"snapdish/internal/model"
	"snapdish/internal/util"
)

// ScyllaStore persists user records in a bucketed users table. The
// partition key is (email_bucket, email); the bucket is a murmur3 hash
// of the normalized email so the same address always resolves to the
// same partition.
type ScyllaStore struct {
	client  *ScyllaClient
	buckets *bucketing.Manager
}

func NewScyllaStore(client *ScyllaClient, buckets *bucketing.Manager) *ScyllaStore {
	return &ScyllaStore{client: client, buckets: buckets}
}

func (s *ScyllaStore) Get(ctx context.Context, email string) (*model.User, error) {
	key := model.NormalizeEmail(email)
	bucket := s.buckets.EmailBucket(key)

	user := &model.User{}
	var lastLogin time.Time

	err := s.client.Prepared.GetUserByEmail.
		Bind(bucket, key).
		WithContext(ctx).
		Scan(&user.Email, &user.ID, &user.HashedPassword, &user.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, ErrNotFound
		}
		util.Error("Failed to get user by email",
			zap.Int("email_bucket", bucket),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if !lastLogin.IsZero() {
		user.LastLogin = &lastLogin
	}

	return user, nil
}

func (s *ScyllaStore) Create(ctx context.Context, user *model.User) error {
	key := model.NormalizeEmail(user.Email)
	bucket := s.buckets.EmailBucket(key)

	var lastLogin time.Time
	if user.LastLogin != nil {
		lastLogin = *user.LastLogin
	}

	applied, err := s.client.Prepared.CreateUser.
		Bind(bucket, key, user.ID, user.HashedPassword, user.CreatedAt, lastLogin).
		WithContext(ctx).
		MapScanCAS(map[string]interface{}{})
	if err != nil {
		util.Error("Failed to create user",
			zap.String("user_id", user.ID),
			zap.Int("email_bucket", bucket),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !applied {
		return ErrDuplicate
	}

	util.Info("User record created",
		zap.String("backend", string(BackendScylla)),
		zap.String("user_id", user.ID),
		zap.Int("email_bucket", bucket))

	return nil
}

func (s *ScyllaStore) UpdateLastLogin(ctx context.Context, email string, t time.Time) error {
	key := model.NormalizeEmail(email)
	bucket := s.buckets.EmailBucket(key)

	err := s.client.Prepared.UpdateLastLogin.
		Bind(t, bucket, key).
		WithContext(ctx).
		Exec()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *ScyllaStore) HealthCheck(ctx context.Context) error {
	return s.client.HealthCheck(ctx)
}
