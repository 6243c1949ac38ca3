package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// Manager handles configuration loading and validation
type Manager struct {
	config *domain.Config
	viper  *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	v := viper.New()

	m := &Manager{viper: v}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return m, nil
}

// GetConfig returns the loaded configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// loadConfig loads configuration from files and environment variables
func (m *Manager) loadConfig() error {
	m.viper.SetConfigName("config")
	m.viper.SetConfigType("yaml")
	m.viper.AddConfigPath(".")
	m.viper.AddConfigPath("./config")
	m.viper.AddConfigPath("/etc/finance-dashboard")

	m.viper.SetEnvPrefix("FINDASH")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	m.setDefaults()

	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		logrus.Info("No config file found, using defaults and environment variables")
	} else {
		logrus.WithField("file", m.viper.ConfigFileUsed()).Info("Loaded configuration file")
	}

	config := &domain.Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := m.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	m.viper.SetDefault("server.host", "0.0.0.0")
	m.viper.SetDefault("server.port", 8080)
	m.viper.SetDefault("server.read_timeout", 30*time.Second)
	m.viper.SetDefault("server.write_timeout", 30*time.Second)
	m.viper.SetDefault("server.idle_timeout", 60*time.Second)

	// Logging defaults
	m.viper.SetDefault("logging.level", "info")
	m.viper.SetDefault("logging.format", "json")

	// Scoring defaults
	m.viper.SetDefault("scoring.eligible_threshold", 80.0)
	m.viper.SetDefault("scoring.review_threshold", 60.0)
	m.viper.SetDefault("scoring.partial_credit", false)

	// Analysis store defaults
	m.viper.SetDefault("store.backend", "memory")
	m.viper.SetDefault("store.capacity", 256)
	m.viper.SetDefault("store.redis_url", "redis://localhost:6379/0")
	m.viper.SetDefault("store.ttl", 24*time.Hour)

	// File registry defaults
	m.viper.SetDefault("registry.backend", "sqlite")
	m.viper.SetDefault("registry.sqlite_path", "data/registry.db")
	m.viper.SetDefault("registry.postgres_url", "")

	// Upload defaults
	m.viper.SetDefault("uploads.dir", "uploads")
	m.viper.SetDefault("uploads.max_size_mb", 16)

	// Rate limit defaults
	m.viper.SetDefault("rate_limit.rps", 5.0)
	m.viper.SetDefault("rate_limit.burst", 10)
}

// Validate checks that the configuration is internally consistent.
func (m *Manager) Validate(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", config.Logging.Level)
	}

	if config.Scoring.EligibleThreshold < 0 || config.Scoring.EligibleThreshold > 100 {
		return fmt.Errorf("eligible threshold must be within [0, 100], got %v", config.Scoring.EligibleThreshold)
	}
	if config.Scoring.ReviewThreshold < 0 || config.Scoring.ReviewThreshold > 100 {
		return fmt.Errorf("review threshold must be within [0, 100], got %v", config.Scoring.ReviewThreshold)
	}
	if config.Scoring.ReviewThreshold > config.Scoring.EligibleThreshold {
		return fmt.Errorf("review threshold (%v) must not exceed eligible threshold (%v)",
			config.Scoring.ReviewThreshold, config.Scoring.EligibleThreshold)
	}

	switch config.Store.Backend {
	case "memory":
		if config.Store.Capacity < 1 {
			return fmt.Errorf("store capacity must be positive, got %d", config.Store.Capacity)
		}
	case "redis":
		if config.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be 'memory' or 'redis')", config.Store.Backend)
	}

	switch config.Registry.Backend {
	case "sqlite":
		if config.Registry.SQLitePath == "" {
			return fmt.Errorf("registry.sqlite_path is required for the sqlite backend")
		}
	case "postgres":
		if config.Registry.PostgresURL == "" {
			return fmt.Errorf("registry.postgres_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("invalid registry backend: %s (must be 'sqlite' or 'postgres')", config.Registry.Backend)
	}

	if config.Uploads.MaxSizeMB < 1 {
		return fmt.Errorf("uploads.max_size_mb must be positive, got %d", config.Uploads.MaxSizeMB)
	}

	if config.RateLimit.RPS <= 0 || config.RateLimit.Burst < 1 {
		return fmt.Errorf("rate limit requires positive rps and burst")
	}

	return nil
}
