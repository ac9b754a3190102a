package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-32-characters-long!!")
	t.Setenv("DB_PASSWORD", "test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTokenExpiry)
	assert.Equal(t, 10*time.Minute, cfg.Auth.ResetTokenExpiry)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.False(t, cfg.Email.Enabled)
	assert.False(t, cfg.Storage.Enabled)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost:3000")
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
}

func TestLoad_CustomValues(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_READ_TIMEOUT", "30s")
	t.Setenv("SESSION_TOKEN_EXPIRY", "24h")
	t.Setenv("RESET_URL_BASE", "https://shop.example.com/reset/")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTokenExpiry)
	assert.Equal(t, "https://shop.example.com/reset", cfg.Email.ResetURLBase)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.0/12"}, cfg.Server.TrustedProxies)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")
	t.Setenv("RESET_TOKEN_EXPIRY", "0s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Auth.ResetTokenExpiry)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "test")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET is required")
}

func TestLoad_DatabaseURLReplacesPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-32-characters-long!!")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/store?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/store?sslmode=disable", cfg.Database.DSN())
}

func TestLoad_MissingDatabaseCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-32-characters-long!!")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionSecureCookie(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://shop.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_EmailRequiresFromAddress(t *testing.T) {
	setRequired(t)
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("EMAIL_FROM_ADDRESS", "")

	_, err := Load()
	assert.ErrorContains(t, err, "EMAIL_FROM_ADDRESS")
}

func TestValidateJWTSecret(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		env       string
		expectErr bool
	}{
		{"dev secret ok", "0123456789abcdef", "development", false},
		{"dev too short", "short", "development", true},
		{"production needs 32", "0123456789abcdef0123", "production", true},
		{"production ok", "0123456789abcdef0123456789abcdef", "production", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateJWTSecret(tt.secret, tt.env)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "require"}
	assert.Equal(t, "host=h port=5433 user=u password=p dbname=n sslmode=require", c.DSN())
}
