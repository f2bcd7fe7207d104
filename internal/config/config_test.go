package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DB_MAX_OPEN_CONNS", "nope")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, AuthModeDev, cfg.AuthMode)
	assert.True(t, cfg.RunMigrations)
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SOME_INT", "7")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 1))

	t.Setenv("SOME_INT", "-3")
	assert.Equal(t, 1, getEnvInt("SOME_INT", 1))
}
