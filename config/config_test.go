package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, ":3000", cfg.Server.Port)
}

func TestLoadFile_YAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: ":8080"
storage:
  driver: redis
  key_prefix: "pt:"
redis:
  addr: "cache:6379"
backup:
  schedule: "@daily"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("REDIS_ADDR", "other:6380")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "pt:", cfg.Storage.KeyPrefix)
	assert.Equal(t, "other:6380", cfg.Redis.Addr)
	assert.Equal(t, "@daily", cfg.Backup.Schedule)
	// untouched defaults survive a partial file
	assert.Equal(t, "data", cfg.Storage.DataDir)
}

func TestLoadFile_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
