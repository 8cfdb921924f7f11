package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-characters-long!!"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Database.Name)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 15*time.Second, cfg.Database.StatsInterval)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 10, cfg.Auth.RateLimit)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("SECRET_KEY", testSecret)
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("DB_POOL_STATS_INTERVAL", "1m")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SERVER_READ_TIMEOUT", "30s")
	t.Setenv("AUTH_RATE_LIMIT", "3")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, ,127.0.0.1/32")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "catalog", cfg.Database.Name)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, time.Minute, cfg.Database.StatsInterval)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 3, cfg.Auth.RateLimit)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1/32"}, cfg.Server.TrustedProxies)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SECRET_KEY", testSecret)
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
}

func TestLoad_SecretKeyRequired(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY is required")
}

func TestLoad_SecretKeyTooShort(t *testing.T) {
	t.Setenv("SECRET_KEY", "123456790")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 16 characters")
}

func TestLoad_ProductionNeedsLongerSecretAndSecureCookies(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SECRET_KEY", "sixteen-chars-ok!")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")

	t.Setenv("SECRET_KEY", testSecret)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Auth.CookieSecure)
}

func TestLoad_NonPositiveRateLimit(t *testing.T) {
	t.Setenv("SECRET_KEY", testSecret)
	t.Setenv("AUTH_RATE_LIMIT", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestDatabaseConfig_URL(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5433, User: "app", Password: "p@ss", Name: "test", SSLMode: "disable"}

	assert.Equal(t, "postgres://app:p%40ss@db:5433/test?sslmode=disable", c.URL())
	assert.Equal(t, "host=db port=5433 user=app password=p@ss dbname=test sslmode=disable", c.DSN())
}
