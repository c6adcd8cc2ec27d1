package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"BACKEND_API", "APP_PORT", "APP_ENV", "APP_SECRET", "SESSION_BACKEND",
		"SESSION_TTL", "SECURE_COOKIES", "DB_HOST", "DB_USER", "DB_PASSWORD",
		"DB_NAME", "DB_PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BACKEND_API", "http://localhost:8000/")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("APP_SECRET", "s3cret")
		t.Setenv("SESSION_TTL", "2h")
		t.Setenv("SECURE_COOKIES", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:8000", cfg.BackendAPI)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "s3cret", cfg.AppSecret)
		assert.Equal(t, SessionBackendCookie, cfg.SessionBackend)
		assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
		assert.True(t, cfg.SecureCookies)
	})

	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BACKEND_API", "http://backend")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "http://backend", cfg.BackendAPI)
		assert.Equal(t, "3000", cfg.AppPort)
		assert.Equal(t, defaultSessionTTL, cfg.SessionTTL)
		assert.NotEmpty(t, cfg.AppSecret)
		assert.False(t, cfg.SecureCookies)
	})

	t.Run("Missing backend", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		assert.ErrorIs(t, err, ErrBackendAPIMissing)
		assert.Nil(t, cfg)
	})

	t.Run("Postgres without host", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BACKEND_API", "http://backend")
		t.Setenv("SESSION_BACKEND", "postgres")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Unknown session backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BACKEND_API", "http://backend")
		t.Setenv("SESSION_BACKEND", "redis")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Production needs secret", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BACKEND_API", "http://backend")
		t.Setenv("APP_ENV", "production")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "http://a.b", normalizeBaseURL("http://a.b/"))
	assert.Equal(t, "http://a.b", normalizeBaseURL(" http://a.b "))
	assert.Equal(t, "http://a.b/api", normalizeBaseURL("http://a.b/api/"))
	assert.Equal(t, "", normalizeBaseURL(""))
}
