package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, ":8008", cfg.Server.Addr)
	require.Equal(t, "list", cfg.Session.Backend)
	require.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
session:
  ttl: 5m
  backend: table
`), 0o644))
	t.Setenv("TASKTRACKER_SESSION_TTL", "45s")
	t.Setenv("TASKTRACKER_DATABASE_LOG_LEVEL", "silent")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, "table", cfg.Session.Backend)
	// env wins over file
	require.Equal(t, 45*time.Second, cfg.Session.TTL)
	require.Equal(t, "silent", cfg.Database.LogLevel)
	// untouched keys keep defaults
	require.Equal(t, time.Minute, cfg.Session.PurgeInterval)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("TASKTRACKER_SESSION_BACKEND", "redis")
	_, err := Load("")
	require.ErrorContains(t, err, "session.backend")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasktracker.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "purge_interval: 1m0s")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}
