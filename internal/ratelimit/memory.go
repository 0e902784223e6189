package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps per-address request timestamps in a process-local
// map. Entries are pruned lazily on each check and swept by a janitor
// so idle addresses do not leak memory.
type MemoryBackend struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	entries map[string][]time.Time

	// now is swappable for tests.
	now  func() time.Time
	stop chan struct{}
}

func NewMemoryBackend(limit int, window time.Duration) *MemoryBackend {
	b := &MemoryBackend{
		limit:   limit,
		window:  window,
		entries: make(map[string][]time.Time),
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	go b.janitor()

	return b
}

func (b *MemoryBackend) Allow(ctx context.Context, key string) (bool, error) {
	now := b.now()
	cutoff := now.Add(-b.window)

	b.mu.Lock()
	defer b.mu.Unlock()

	timestamps := b.entries[key]

	// Discard everything outside the trailing window.
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= b.limit {
		b.entries[key] = valid
		return false, nil
	}

	b.entries[key] = append(valid, now)
	return true, nil
}

// janitor periodically removes addresses whose every timestamp has
// aged out of the window.
func (b *MemoryBackend) janitor() {
	ticker := time.NewTicker(b.window)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.sweep()
		}
	}
}

func (b *MemoryBackend) sweep() {
	cutoff := b.now().Add(-b.window)

	b.mu.Lock()
	defer b.mu.Unlock()

	for key, timestamps := range b.entries {
		live := false
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(b.entries, key)
		}
	}
}

// Close stops the janitor goroutine.
func (b *MemoryBackend) Close() {
	close(b.stop)
}
