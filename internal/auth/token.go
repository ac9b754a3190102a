package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/storefront/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret        []byte
	sessionExpiry time.Duration
	now           func() time.Time
}

func NewTokenManager(secret string, sessionExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:        []byte(secret),
		sessionExpiry: sessionExpiry,
		now:           time.Now,
	}
}

// SessionExpiry is the validity window of issued tokens.
func (tm *TokenManager) SessionExpiry() time.Duration {
	return tm.sessionExpiry
}

// IssueSessionToken signs a session token for userID and returns it with
// its absolute expiry.
func (tm *TokenManager) IssueSessionToken(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("issue session token: empty user id")
	}

	now := tm.now()
	expiresAt := now.Add(tm.sessionExpiry)

	claims := &models.TokenClaims{
		Type:   models.TokenTypeSession,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// VerifySessionToken checks the signature and validity window of
// tokenString. It returns ErrExpiredToken once the token is past expiry
// and ErrInvalidToken for every other failure.
func (tm *TokenManager) VerifySessionToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	},
		jwt.WithTimeFunc(tm.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Type != models.TokenTypeSession || claims.UserID == "" {
		return nil, models.ErrInvalidToken
	}

	return claims, nil
}
