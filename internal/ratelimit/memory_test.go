package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBackend(t *testing.T, limit int, window time.Duration) (*MemoryBackend, *time.Time) {
	t.Helper()

	b := NewMemoryBackend(limit, window)
	t.Cleanup(b.Close)

	now := time.Now()
	b.now = func() time.Time { return now }
	return b, &now
}

func TestMemoryBackend_EnforcesLimit(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t, 5, time.Minute)

	for i := 0; i < 5; i++ {
		allowed, err := b.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d should be allowed", i+1)
	}

	allowed, err := b.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed, "attempt over the limit should be rejected")
}

func TestMemoryBackend_WindowSlides(t *testing.T) {
	ctx := context.Background()
	b, now := newTestBackend(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := b.Allow(ctx, "1.2.3.4")
		assert.True(t, allowed)
	}
	allowed, _ := b.Allow(ctx, "1.2.3.4")
	assert.False(t, allowed)

	// After the window elapses the address is allowed again.
	*now = now.Add(61 * time.Second)
	allowed, err := b.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryBackend_AddressesAreIndependent(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t, 1, time.Minute)

	allowed, _ := b.Allow(ctx, "1.1.1.1")
	assert.True(t, allowed)
	allowed, _ = b.Allow(ctx, "1.1.1.1")
	assert.False(t, allowed)

	// A different address has its own bucket.
	allowed, _ = b.Allow(ctx, "2.2.2.2")
	assert.True(t, allowed)
}

func TestMemoryBackend_SweepDropsEmptyEntries(t *testing.T) {
	ctx := context.Background()
	b, now := newTestBackend(t, 3, time.Minute)

	_, err := b.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)

	*now = now.Add(2 * time.Minute)
	b.sweep()

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Empty(t, b.entries)
}

type failingBackend struct{}

func (failingBackend) Allow(ctx context.Context, key string) (bool, error) {
	return false, errors.New("backend unreachable")
}

func TestLimiter_FailsOpen(t *testing.T) {
	l := NewLimiter(failingBackend{}, zap.NewNop())

	// Backend errors must allow the request rather than block signups.
	assert.True(t, l.Allow(context.Background(), "1.2.3.4"))
}

func TestLimiter_PassesThroughDecision(t *testing.T) {
	b := NewMemoryBackend(1, time.Minute)
	defer b.Close()
	l := NewLimiter(b, zap.NewNop())

	ctx := context.Background()
	assert.True(t, l.Allow(ctx, "1.2.3.4"))
	assert.False(t, l.Allow(ctx, "1.2.3.4"))
}
