package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "27017")
	t.Setenv("DB_USER", "maze")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DB_NAME", "mazes")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("JWT_ISSUER", "mazebuilder")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)

		c, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 27017, c.DBPort)
		assert.Equal(t, 8080, c.RESTPort)
		assert.Empty(t, c.RedisAddr)
		assert.Equal(t, time.Hour, c.SessionTTL)
		assert.Equal(t, 100, c.MaxMazeDimension)
		assert.Equal(t, 100*time.Millisecond, c.PlayInterval)
		assert.Equal(t, c, Envs)
	})

	t.Run("overrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("SESSION_TTL", "15m")
		t.Setenv("MAX_MAZE_DIMENSION", "40")

		c, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", c.RedisAddr)
		assert.Equal(t, 15*time.Minute, c.SessionTTL)
		assert.Equal(t, 40, c.MaxMazeDimension)
	})

	t.Run("malformed values", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_PORT", "mongo")

		_, err := Load()
		assert.ErrorContains(t, err, "DB_PORT")
	})

	t.Run("maze dimension out of range", func(t *testing.T) {
		for _, v := range []string{"0", "251", "-3"} {
			setRequired(t)
			t.Setenv("MAX_MAZE_DIMENSION", v)

			_, err := Load()
			assert.ErrorContains(t, err, "MAX_MAZE_DIMENSION", v)
		}

		setRequired(t)
		t.Setenv("MAX_MAZE_DIMENSION", "250")
		c, err := Load()
		require.NoError(t, err)
		assert.Equal(t, MaxMazeDimensionLimit, c.MaxMazeDimension)
	})

	t.Run("malformed duration", func(t *testing.T) {
		setRequired(t)
		t.Setenv("PLAY_INTERVAL", "fast")

		_, err := Load()
		assert.ErrorContains(t, err, "PLAY_INTERVAL")
	})
}
