package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. TASKTRACKER_SERVER_ADDR
const EnvPrefix = "TASKTRACKER"

// Config represents the full service configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Session  SessionConfig  `yaml:"session" mapstructure:"session"`
	Token    TokenConfig    `yaml:"token" mapstructure:"token"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	// Gin mode: debug, release or test
	Mode string `yaml:"mode" mapstructure:"mode"`
}

// SessionConfig configures session lifetime and the collection backend
type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl" mapstructure:"ttl"`
	PurgeInterval time.Duration `yaml:"purge_interval" mapstructure:"purge_interval"`
	// Backend is "list" or "table"
	Backend string `yaml:"backend" mapstructure:"backend"`
}

// TokenConfig configures session token signing
type TokenConfig struct {
	Secret   string        `yaml:"secret" mapstructure:"secret"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Audience string        `yaml:"audience" mapstructure:"audience"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// DatabaseConfig configures the per-session SQLite databases
type DatabaseConfig struct {
	// LogLevel is the gorm log level: silent, error, warn or info
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8008",
			Mode: "debug",
		},
		Session: SessionConfig{
			TTL:           30 * time.Minute,
			PurgeInterval: time.Minute,
			Backend:       "list",
		},
		Token: TokenConfig{
			Secret:   "development-insecure-secret-change-me",
			Issuer:   "task-tracker-api",
			Audience: "task-tracker-clients",
			TTL:      24 * time.Hour,
		},
		Database: DatabaseConfig{
			LogLevel: "warn",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and TASKTRACKER_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// settings flattens cfg into dotted viper keys. Durations are kept in their
// string form so the same values can be written back to YAML.
func settings(cfg *Config) map[string]any {
	return map[string]any{
		"server.addr":            cfg.Server.Addr,
		"server.mode":            cfg.Server.Mode,
		"session.ttl":            cfg.Session.TTL.String(),
		"session.purge_interval": cfg.Session.PurgeInterval.String(),
		"session.backend":        cfg.Session.Backend,
		"token.secret":           cfg.Token.Secret,
		"token.issuer":           cfg.Token.Issuer,
		"token.audience":         cfg.Token.Audience,
		"token.ttl":              cfg.Token.TTL.String(),
		"database.log_level":     cfg.Database.LogLevel,
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range settings(cfg) {
		v.SetDefault(key, value)
	}
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if c.Session.PurgeInterval <= 0 {
		return errors.New("session.purge_interval must be positive")
	}
	switch strings.ToLower(c.Session.Backend) {
	case "list", "table":
	default:
		return fmt.Errorf("session.backend must be list or table, got %q", c.Session.Backend)
	}
	if c.Token.Secret == "" {
		return errors.New("token.secret is required")
	}
	if c.Token.TTL <= 0 {
		return errors.New("token.ttl must be positive")
	}
	switch strings.ToLower(c.Database.LogLevel) {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("database.log_level must be silent, error, warn or info, got %q", c.Database.LogLevel)
	}
	return nil
}

// WriteDefault writes the default configuration as YAML to path
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	doc := map[string]map[string]any{}
	for key, value := range settings(DefaultConfig()) {
		section, name, _ := strings.Cut(key, ".")
		if doc[section] == nil {
			doc[section] = map[string]any{}
		}
		doc[section][name] = value
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	header := "# Task tracker configuration\n# Every key can be overridden with " + EnvPrefix + "_<SECTION>_<KEY>\n\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}
