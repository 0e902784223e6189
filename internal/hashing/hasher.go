package hashing

import (
	"errors"
	"fmt"

	"snapdish/internal/config"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashFailed = errors.New("password hashing failed")

// Hasher wraps bcrypt with an environment-resolved cost factor.
// bcrypt embeds a random salt per call, so hashing the same password
// twice yields different strings while verification stays deterministic.
type Hasher struct {
	cost      int
	dummyHash []byte
}

// NewHasher creates a hasher with the cost for the current environment
// (10 in development, 12 in production). A dummy hash is precomputed at
// the same cost so verification against nonexistent accounts burns
// equivalent CPU time, keeping account enumeration via timing hard.
func NewHasher(cfg *config.Config) (*Hasher, error) {
	cost := cfg.BcryptCost()

	dummy, err := bcrypt.GenerateFromPassword([]byte("snapdish-timing-pad"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to precompute dummy hash: %w", err)
	}

	return &Hasher{cost: cost, dummyHash: dummy}, nil
}

// Hash returns the salted bcrypt hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashFailed, err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// DummyCompare performs one full-cost comparison against the
// precomputed hash. Called on lookups for accounts that do not exist;
// the result is always false and is intentionally discarded.
func (h *Hasher) DummyCompare(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(plaintext))
}

// Cost returns the configured bcrypt cost factor.
func (h *Hasher) Cost() int {
	return h.cost
}
