package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Store     StoreConfig     `mapstructure:"store"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Uploads   UploadConfig    `mapstructure:"uploads"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ScoringConfig holds the eligibility cut points and the threshold-policy
// credit mode. EligibleThreshold must be strictly greater than
// ReviewThreshold; status assignment is monotone in percentage as long as
// that ordering holds.
type ScoringConfig struct {
	EligibleThreshold float64 `mapstructure:"eligible_threshold"`
	ReviewThreshold   float64 `mapstructure:"review_threshold"`
	PartialCredit     bool    `mapstructure:"partial_credit"`
}

// StoreConfig selects and tunes the analysis store backend.
type StoreConfig struct {
	Backend  string        `mapstructure:"backend"` // "memory" or "redis"
	Capacity int           `mapstructure:"capacity"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RegistryConfig selects and tunes the uploaded-file registry backend.
type RegistryConfig struct {
	Backend     string `mapstructure:"backend"` // "sqlite" or "postgres"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresURL string `mapstructure:"postgres_url"`
}

// UploadConfig represents upload handling configuration
type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	MaxSizeMB int64  `mapstructure:"max_size_mb"`
}

// RateLimitConfig tunes the token bucket applied to mutating routes.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}
