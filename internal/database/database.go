package database

import (
	"strings"

	"task-tracker-api/internal/config"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryDSN opens a private in-memory database. Every connection to it is a
// separate database, so the pool is pinned to a single connection.
const MemoryDSN = ":memory:"

// OpenSessionDB opens an empty in-memory SQLite database for one session.
// Using glebarez/sqlite which is a pure Go implementation (no CGO required).
func OpenSessionDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(MemoryDSN), &gorm.Config{
		Logger: logger.Default.LogMode(LogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	return db, nil
}

// Opener returns a function opening a fresh session database per call
func Opener(cfg config.DatabaseConfig) func() (*gorm.DB, error) {
	return func() (*gorm.DB, error) {
		return OpenSessionDB(cfg)
	}
}

// LogLevel maps a configured level name to the gorm logger level
func LogLevel(name string) logger.LogLevel {
	switch strings.ToLower(name) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
