// Package ratelimit implements sliding-window rate limiting for signup
// attempts, keyed by client address.
package ratelimit

import (
	"context"

	"go.uber.org/zap"
)

// Backend counts a request against the key's trailing window and
// reports whether it is within the limit.
type Backend interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Limiter wraps a backend with the fail-open policy: if the backend is
// unreachable the request is allowed rather than blocked.
type Limiter struct {
	backend Backend
	logger  *zap.Logger
}

func NewLimiter(backend Backend, logger *zap.Logger) *Limiter {
	return &Limiter{backend: backend, logger: logger}
}

// Allow reports whether the client address may proceed.
func (l *Limiter) Allow(ctx context.Context, clientAddr string) bool {
	allowed, err := l.backend.Allow(ctx, clientAddr)
	if err != nil {
		l.logger.Warn("Rate limit backend error, failing open",
			zap.String("client_addr", clientAddr),
			zap.Error(err))
		return true
	}
	return allowed
}
