package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/BradenHooton/storefront/internal/models"
)

// resetSecretBytes is the entropy of a reset secret (256 bits).
const resetSecretBytes = 32

// NewResetToken generates a reset secret valid until now+ttl. Only the
// returned Hash may be persisted.
func NewResetToken(now time.Time, ttl time.Duration) (models.ResetToken, error) {
	buf := make([]byte, resetSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return models.ResetToken{}, fmt.Errorf("failed to generate reset token: %w", err)
	}

	secret := hex.EncodeToString(buf)
	return models.ResetToken{
		Secret:    secret,
		Hash:      HashResetSecret(secret),
		ExpiresAt: now.Add(ttl),
	}, nil
}

// HashResetSecret is the stored form of a reset secret.
func HashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
