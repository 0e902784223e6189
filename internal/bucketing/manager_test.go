package bucketing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailBucket_Deterministic(t *testing.T) {
	m := NewManager(DefaultUserBuckets)

	first := m.EmailBucket("test@example.com")
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, m.EmailBucket("test@example.com"))
	}
}

func TestEmailBucket_StaysInRange(t *testing.T) {
	m := NewManager(16)

	for i := 0; i < 1000; i++ {
		bucket := m.EmailBucket(fmt.Sprintf("user%d@example.com", i))
		assert.GreaterOrEqual(t, bucket, 0)
		assert.Less(t, bucket, 16)
	}
}

func TestNewManager_DefaultsOnInvalidCount(t *testing.T) {
	m := NewManager(0)
	assert.Equal(t, DefaultUserBuckets, m.UserBuckets())
}
