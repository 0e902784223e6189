// Package validate holds the pure credential validators applied during
// signup. Functions here have no side effects and no failure modes
// beyond returning false or a rule error.
package validate

import (
	"errors"
	"regexp"
	"unicode"
)

const (
	// MaxEmailLength caps the local-part plus domain per RFC 5321.
	MaxEmailLength = 254
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8
	// MaxPasswordLength caps passwords before they reach the hasher.
	MaxPasswordLength = 128
)

// Rule errors identify which password requirement failed. The handler
// surfaces these verbatim to the client.
var (
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("Password must be at most 128 characters long")
	ErrPasswordNoDigit  = errors.New("Password must contain at least one number")
	ErrPasswordNoLower  = errors.New("Password must contain at least one lowercase letter")
	ErrPasswordNoUpper  = errors.New("Password must contain at least one uppercase letter")
)

// local-part@domain.tld with no whitespace or extra @
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether s looks like a deliverable address.
func ValidateEmail(s string) bool {
	if s == "" || len(s) > MaxEmailLength {
		return false
	}
	return emailRegex.MatchString(s)
}

// CheckPassword returns the first failing password rule, checked in
// fixed order: length, digit, lowercase, uppercase. Returns nil when
// the password satisfies all rules.
func CheckPassword(s string) error {
	if len(s) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(s) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if !containsFunc(s, unicode.IsDigit) {
		return ErrPasswordNoDigit
	}
	if !containsFunc(s, unicode.IsLower) {
		return ErrPasswordNoLower
	}
	if !containsFunc(s, unicode.IsUpper) {
		return ErrPasswordNoUpper
	}
	return nil
}

// ValidatePassword reports whether s satisfies every password rule.
func ValidatePassword(s string) bool {
	return CheckPassword(s) == nil
}

func containsFunc(s string, f func(rune) bool) bool {
	for _, r := range s {
		if f(r) {
			return true
		}
	}
	return false
}
