package auth

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	token, err := NewResetToken(now, 10*time.Minute)
	require.NoError(t, err)

	raw, err := hex.DecodeString(token.Secret)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	assert.Equal(t, HashResetSecret(token.Secret), token.Hash)
	assert.NotEqual(t, token.Secret, token.Hash)
	assert.Equal(t, now.Add(10*time.Minute), token.ExpiresAt)
}

func TestNewResetToken_Unique(t *testing.T) {
	now := time.Now()
	a, err := NewResetToken(now, time.Minute)
	require.NoError(t, err)
	b, err := NewResetToken(now, time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, a.Secret, b.Secret)
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestHashResetSecret_Deterministic(t *testing.T) {
	assert.Equal(t, HashResetSecret("abc"), HashResetSecret("abc"))
	assert.NotEqual(t, HashResetSecret("abc"), HashResetSecret("abd"))
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashResetSecret("abc"))
}
