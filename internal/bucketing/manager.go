// Package bucketing assigns records to fixed partition buckets so the
// Scylla user table avoids hot single-key partitions.
package bucketing

import (
	"hash"
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultUserBuckets is the partition count for the users table.
// Changing it requires a data migration, so it is a constant rather
// than configuration.
const DefaultUserBuckets = 64

type Manager struct {
	userBuckets int
	hasherPool  sync.Pool
}

func NewManager(userBuckets int) *Manager {
	if userBuckets <= 0 {
		userBuckets = DefaultUserBuckets
	}

	m := &Manager{userBuckets: userBuckets}

	// Pool of hash functions to avoid allocation on every lookup
	m.hasherPool = sync.Pool{
		New: func() interface{} {
			return murmur3.New64()
		},
	}

	return m
}

// EmailBucket returns the consistent bucket (0 to userBuckets-1) for a
// normalized email. The same email always lands in the same bucket.
func (m *Manager) EmailBucket(email string) int {
	return int(m.getHash(email) % uint64(m.userBuckets))
}

// UserBuckets returns the configured bucket count.
func (m *Manager) UserBuckets() int {
	return m.userBuckets
}

func (m *Manager) getHash(key string) uint64 {
	hasher := m.hasherPool.Get().(hash.Hash64)
	defer m.hasherPool.Put(hasher)

	hasher.Reset()
	hasher.Write([]byte(key))
	return hasher.Sum64()
}
