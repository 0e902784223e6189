package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_IssueAndVerify(t *testing.T) {
	s := NewSessions("test-secret", 30*24*time.Hour)

	token, err := s.Issue("user-1", "test@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, email, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "test@example.com", email)
}

func TestSessions_WrongSecret(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	other := NewSessions("other-secret", time.Hour)

	token, err := s.Issue("user-1", "test@example.com")
	require.NoError(t, err)

	_, _, err = other.Verify(token)
	assert.Error(t, err)
}

func TestSessions_Expired(t *testing.T) {
	s := NewSessions("test-secret", -time.Minute)

	token, err := s.Issue("user-1", "test@example.com")
	require.NoError(t, err)

	_, _, err = s.Verify(token)
	assert.Error(t, err)
}

func TestSessions_GarbageToken(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)

	_, _, err := s.Verify("not.a.token")
	assert.Error(t, err)
}
