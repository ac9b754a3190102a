package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		expectErr bool
	}{
		{name: "valid password", password: "correct horse battery", expectErr: false},
		{name: "exactly min length", password: "abcdefgh", expectErr: false},
		{name: "too short", password: "short1", expectErr: true},
		{name: "too long", password: strings.Repeat("a", MaxPasswordLen+1), expectErr: true},
		{name: "blank", password: "         ", expectErr: true},
		{name: "common password", password: "password123", expectErr: true},
		{name: "common password case insensitive", password: "PassWord123", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if !tt.expectErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var pve *PasswordValidationError
			require.True(t, errors.As(err, &pve))
			assert.NotEmpty(t, pve.Errors)
			assert.Equal(t, "invalid password", err.Error())
		})
	}
}

func TestHashAndComparePassword(t *testing.T) {
	password := "SecureP@ss123"

	hash, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)

	assert.NoError(t, ComparePassword(hash, password))
	assert.Error(t, ComparePassword(hash, "WrongPassword123!"))
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}
