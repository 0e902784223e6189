package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"valid address", "test@example.com", true},
		{"valid with plus tag", "user+tag@example.co.uk", true},
		{"missing at sign", "bad", false},
		{"missing domain dot", "test@example", false},
		{"missing local part", "@example.com", false},
		{"missing tld after dot", "test@example.", false},
		{"contains whitespace", "te st@example.com", false},
		{"empty string", "", false},
		{"over max length", strings.Repeat("a", MaxEmailLength) + "@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestCheckPassword_RuleOrder(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid password", "TestPass123", nil},
		{"minimum valid", "Abcdef12", nil},
		{"too short", "Ab1", ErrPasswordTooShort},
		{"too long", strings.Repeat("Aa1", 50), ErrPasswordTooLong},
		{"missing digit", "Abcdefgh", ErrPasswordNoDigit},
		{"missing lowercase", "ABCDEFG1", ErrPasswordNoLower},
		{"missing uppercase", "abcdefg1", ErrPasswordNoUpper},
		// length is checked before composition
		{"short and no digit", "Abc", ErrPasswordTooShort},
		// digit is checked before case rules
		{"all uppercase no digit", "ABCDEFGH", ErrPasswordNoDigit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPassword(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("TestPass123"))
	assert.False(t, ValidatePassword("short1A"))
	assert.False(t, ValidatePassword("nouppercase1"))
}
