package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	c := NewConfig()

	assert.Equal(t, "localhost:8000", c.ListenAddr)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "prod", c.Environment)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, 3600, c.AccessTokenTTL)
	assert.Equal(t, 30, c.RefreshTokenTTLDays)
	assert.Equal(t, 5, c.LoginMaxAttempts)
	assert.Equal(t, 15, c.LoginDecayMinutes)
}

func TestConfig_LoadEnv(t *testing.T) {
	t.Run("set values override defaults", func(t *testing.T) {
		env := map[string]string{
			"RUN_ADDRESS":            "0.0.0.0:9090",
			"DATABASE_URI":           "postgres://localhost/salon",
			"LOG_LEVEL":              "debug",
			"ENVIRONMENT":            "dev",
			"ACCESS_TOKEN_TTL":       "7200",
			"REFRESH_TOKEN_TTL_DAYS": "7",
			"LOGIN_MAX_ATTEMPTS":     "10",
			"LOGIN_DECAY_MINUTES":    "30",
		}

		c := NewConfig()
		err := c.LoadEnv(func(key string) string { return env[key] })

		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9090", c.ListenAddr)
		assert.Equal(t, "postgres://localhost/salon", c.DatabaseDSN)
		assert.Equal(t, "debug", c.LogLevel)
		assert.Equal(t, "dev", c.Environment)
		assert.Equal(t, 7200, c.AccessTokenTTL)
		assert.Equal(t, 7, c.RefreshTokenTTLDays)
		assert.Equal(t, 10, c.LoginMaxAttempts)
		assert.Equal(t, 30, c.LoginDecayMinutes)
	})

	t.Run("empty values keep defaults", func(t *testing.T) {
		c := NewConfig()
		err := c.LoadEnv(func(string) string { return "" })

		require.NoError(t, err)
		assert.Equal(t, NewConfig(), c)
	})

	t.Run("non numeric ttl is an error", func(t *testing.T) {
		c := NewConfig()
		err := c.LoadEnv(func(key string) string {
			if key == "ACCESS_TOKEN_TTL" {
				return "one hour"
			}
			return ""
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "ACCESS_TOKEN_TTL")
	})
}

func TestConfig_ParseFlags(t *testing.T) {
	t.Run("flags override everything", func(t *testing.T) {
		c := NewConfig()
		err := c.ParseFlags([]string{
			"-a", "127.0.0.1:8081",
			"-d", "postgres://localhost/salon",
			"-l", "warn",
			"--access-token-ttl", "1800",
			"--login-max-attempts", "3",
		})

		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8081", c.ListenAddr)
		assert.Equal(t, "postgres://localhost/salon", c.DatabaseDSN)
		assert.Equal(t, "warn", c.LogLevel)
		assert.Equal(t, 1800, c.AccessTokenTTL)
		assert.Equal(t, 3, c.LoginMaxAttempts)
	})

	t.Run("unknown flag is an error", func(t *testing.T) {
		c := NewConfig()
		err := c.ParseFlags([]string{"--no-such-flag"})

		require.Error(t, err)
	})
}
