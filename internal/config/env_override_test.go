package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_Store(t *testing.T) {
	t.Run("GLORP_DB sets database path", func(t *testing.T) {
		clearGlorpEnv(t)
		t.Setenv("GLORP_DB", "/tmp/g.db")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/tmp/g.db", cfg.Store.DatabasePath)
		assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	})

	t.Run("GLORP_REDIS_ADDR switches backend when GLORP_STORE is unset", func(t *testing.T) {
		clearGlorpEnv(t)
		t.Setenv("GLORP_REDIS_ADDR", "redis:6379")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "redis:6379", cfg.Store.RedisAddr)
		assert.Equal(t, BackendRedis, cfg.Store.Backend)
	})

	t.Run("GLORP_STORE wins over the redis address", func(t *testing.T) {
		clearGlorpEnv(t)
		t.Setenv("GLORP_REDIS_ADDR", "redis:6379")
		t.Setenv("GLORP_STORE", BackendSQLite)

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	})
}

func TestEnvOverrides_EngineAndUX(t *testing.T) {
	t.Run("GLORP_SEED parses integers", func(t *testing.T) {
		clearGlorpEnv(t)
		t.Setenv("GLORP_SEED", "1234")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, int64(1234), cfg.Engine.Seed)
	})

	t.Run("invalid GLORP_SEED is ignored", func(t *testing.T) {
		clearGlorpEnv(t)
		t.Setenv("GLORP_SEED", "lots")

		cfg := DefaultConfig()
		cfg.Engine.Seed = 7
		cfg.applyEnvOverrides()

		assert.Equal(t, int64(7), cfg.Engine.Seed)
	})

	t.Run("GLORP_THEME overrides theme", func(t *testing.T) {
		clearGlorpEnv(t)
		t.Setenv("GLORP_THEME", "light")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "light", cfg.UX.Theme)
	})
}
