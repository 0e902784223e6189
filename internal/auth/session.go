// Package auth implements credentials-based authentication and the
// session tokens issued on successful login.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims carries the authenticated identity inside the token.
// The user id travels in the registered subject claim.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Sessions signs and verifies session tokens with a fixed maximum
// lifetime (30 days by default).
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed session token for the user.
func (s *Sessions) Issue(userID, email string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
	})

	return token.SignedString(s.secret)
}

// Verify parses a session token and returns the user id and email.
func (s *Sessions) Verify(tokenString string) (userID, email string, err error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return "", "", err
	}

	if !token.Valid {
		return "", "", ErrInvalidToken
	}

	return claims.Subject, claims.Email, nil
}

// TTL returns the configured session lifetime.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}
