package database

import (
	"testing"
	"time"

	"github.com/BradenHooton/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig_DiscreteFields(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:              "db.internal",
		Port:              5433,
		User:              "shop",
		Password:          "pw",
		Name:              "storefront",
		SSLMode:           "disable",
		MaxConns:          12,
		MinConns:          3,
		MaxConnLifetime:   30 * time.Minute,
		MaxConnIdleTime:   2 * time.Minute,
		HealthCheckPeriod: 45 * time.Second,
	}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "shop", pc.ConnConfig.User)
	assert.Equal(t, "storefront", pc.ConnConfig.Database)
	assert.Equal(t, int32(12), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, 2*time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, 45*time.Second, pc.HealthCheckPeriod)
	assert.Equal(t, "storefront", pc.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_URLOverridesDiscreteFields(t *testing.T) {
	cfg := &config.DatabaseConfig{
		URL:      "postgres://u:p@urlhost:5432/urldb?sslmode=disable&application_name=reset-sweeper",
		Host:     "ignored",
		Name:     "ignored",
		MaxConns: 4,
	}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "urlhost", pc.ConnConfig.Host)
	assert.Equal(t, "urldb", pc.ConnConfig.Database)
	assert.Equal(t, int32(4), pc.MaxConns)
	assert.Equal(t, "reset-sweeper", pc.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_ZeroValuesKeepDriverDefaults(t *testing.T) {
	cfg := &config.DatabaseConfig{URL: "postgres://u:p@localhost:5432/store?sslmode=disable"}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Positive(t, pc.MaxConns)
	assert.Equal(t, int32(0), pc.MinConns)
	assert.Positive(t, pc.MaxConnLifetime)
	assert.Positive(t, pc.HealthCheckPeriod)
}

func TestPoolConfig_MinConnsCappedAtMax(t *testing.T) {
	cfg := &config.DatabaseConfig{
		URL:      "postgres://u:p@localhost:5432/store?sslmode=disable",
		MaxConns: 2,
		MinConns: 5,
	}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(2), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
}

func TestPoolConfig_InvalidURL(t *testing.T) {
	cfg := &config.DatabaseConfig{URL: "postgres://u:p@localhost:notaport/store"}

	_, err := poolConfig(cfg)
	assert.ErrorContains(t, err, "invalid database settings")
}
