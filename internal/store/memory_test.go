package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapdish/internal/config"
	"snapdish/internal/model"
)

func cfgWith(redisURL string, scyllaNodes []string) *config.Config {
	return &config.Config{RedisURL: redisURL, ScyllaNodes: scyllaNodes}
}

func testUser(email string) *model.User {
	return &model.User{
		ID:             "u-1",
		Email:          email,
		HashedPassword: "$2a$10$notarealhash",
		CreatedAt:      time.Now().UTC(),
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, testUser("test@example.com")))

	user, err := s.Get(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_NormalizesKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, testUser("  Test@Example.COM ")))

	// Lookup under any casing or padding resolves to the same record.
	user, err := s.Get(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)

	_, err = s.Get(ctx, "TEST@EXAMPLE.COM")
	assert.NoError(t, err)
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, testUser("a@b.com")))

	err := s.Create(ctx, testUser("A@B.com"))
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, testUser("a@b.com")))

	ts := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.UpdateLastLogin(ctx, "A@b.com", ts))

	user, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, ts, *user.LastLogin)

	err = s.UpdateLastLogin(ctx, "nobody@b.com", ts)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, testUser("a@b.com")))

	user, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	user.HashedPassword = "mutated"

	again, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$notarealhash", again.HashedPassword)
}

func TestResolveBackend_Precedence(t *testing.T) {
	assert.Equal(t, BackendMemory, ResolveBackend(cfgWith("", nil)))
	assert.Equal(t, BackendScylla, ResolveBackend(cfgWith("", []string{"scylla-1:9042"})))
	// Cache service wins over the KV service when both are configured.
	assert.Equal(t, BackendRedis, ResolveBackend(cfgWith("redis://localhost:6379", []string{"scylla-1:9042"})))
}
