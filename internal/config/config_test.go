package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.True(t, cfg.EnforceSelfClock)
	assert.Equal(t, 10, cfg.WorkerConcurrency)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("ENFORCE_SELF_CLOCK", "false")
	t.Setenv("IS_LOCAL_DEV", "true")
	t.Setenv("DISPLAY_TIMEZONE", "Europe/Bucharest")
	t.Setenv("WORKER_CONCURRENCY", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.False(t, cfg.EnforceSelfClock)
	assert.True(t, cfg.IsLocalDev)
	assert.Equal(t, 3, cfg.WorkerConcurrency)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Bucharest", loc.String())
}

func TestLoadConfig_Rejects(t *testing.T) {
	t.Run("unknown storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mongo")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
