package store

import (
	"context"
	"sync"
	"time"

	"snapdish/internal/model"
)

// MemoryStore keeps user records in a process-local map. Used when no
// external backend is configured; records do not survive restarts.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*model.User)}
}

func (s *MemoryStore) Get(ctx context.Context, email string) (*model.User, error) {
	key := model.NormalizeEmail(email)

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[key]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *user
	return &copied, nil
}

func (s *MemoryStore) Create(ctx context.Context, user *model.User) error {
	key := model.NormalizeEmail(user.Email)

	// Check and insert under one lock; the map is only mutated here,
	// so duplicate suppression is atomic per key.
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[key]; exists {
		return ErrDuplicate
	}

	copied := *user
	copied.Email = key
	s.users[key] = &copied
	return nil
}

func (s *MemoryStore) UpdateLastLogin(ctx context.Context, email string, t time.Time) error {
	key := model.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[key]
	if !ok {
		return ErrNotFound
	}

	ts := t
	user.LastLogin = &ts
	return nil
}

func (s *MemoryStore) HealthCheck(ctx context.Context) error {
	return nil
}

// Len reports the number of stored users.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
