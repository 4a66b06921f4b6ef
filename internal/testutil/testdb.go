package testutil

import (
	"testing"
	"time"

	"task-tracker-api/internal/config"
	"task-tracker-api/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewInMemoryDB creates a silent in-memory SQLite DB and closes it when the test ends.
func NewInMemoryDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenSessionDB(config.DatabaseConfig{LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TestConfig returns the default configuration with quiet logging and the given backend.
func TestConfig(backend string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.Mode = "test"
	cfg.Session.Backend = backend
	cfg.Database.LogLevel = "silent"
	cfg.Token.Secret = "test-secret"
	return cfg
}
