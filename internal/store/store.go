// Package store provides user persistence over interchangeable
// backends. The backend is resolved once at startup from configuration
// and reused for the life of the process.
package store

import (
	"context"
	"errors"
	"time"

	"snapdish/internal/config"
	"snapdish/internal/model"
)

var (
	// ErrNotFound means no record exists for the key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate means a record for the key already exists. Every
	// backend detects this with a conditional put, so two racing
	// signups on the same email cannot both succeed.
	ErrDuplicate = errors.New("user already exists")
	// ErrUnavailable means the backend could not be reached. Distinct
	// from ErrNotFound so callers can map it to a 500 instead of
	// treating an outage as an absent account.
	ErrUnavailable = errors.New("user storage unavailable")
)

// Store is the single source of truth for user records. Implementations
// normalize the email key (lowercased, trimmed) on every call.
type Store interface {
	// Get returns the user for the normalized email, or ErrNotFound.
	Get(ctx context.Context, email string) (*model.User, error)
	// Create persists a new user, or returns ErrDuplicate if the
	// normalized email is already taken.
	Create(ctx context.Context, user *model.User) error
	// UpdateLastLogin records a successful authentication.
	UpdateLastLogin(ctx context.Context, email string, t time.Time) error
	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error
}

// Backend identifies the resolved persistence backend.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
	BackendScylla Backend = "scylla"
)

// ResolveBackend picks the backend for this process with fixed
// precedence: cache service, then KV service, then in-process map.
func ResolveBackend(cfg *config.Config) Backend {
	switch {
	case cfg.RedisURL != "":
		return BackendRedis
	case len(cfg.ScyllaNodes) > 0:
		return BackendScylla
	default:
		return BackendMemory
	}
}
