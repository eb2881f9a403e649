package config

import (
	"time"

	"github.com/vietddude/liveboard/internal/core/domain"
	redisclient "github.com/vietddude/liveboard/internal/infra/redis"
	"github.com/vietddude/liveboard/internal/infra/storage/postgres"
	"github.com/vietddude/liveboard/internal/infra/stream"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server    ServerConfig       `yaml:"server"`
	Logging   LoggingConfig      `yaml:"logging"`
	Redis     redisclient.Config `yaml:"redis"`
	Database  postgres.Config    `yaml:"database"`
	Stream    stream.Config      `yaml:"stream"`
	Reconnect ReconnectConfig    `yaml:"reconnect"`
	Panels    []PanelConfig      `yaml:"panels"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ReconnectConfig holds the panel reconnection policy.
type ReconnectConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MaxAttempts  int           `yaml:"max_attempts"`
	BaseDelay    time.Duration `yaml:"base_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	PollInterval time.Duration `yaml:"poll_interval"` // liveness probe interval
}

// DefaultReconnect returns the standard reconnection policy.
func DefaultReconnect() ReconnectConfig {
	return ReconnectConfig{
		Enabled:      true,
		MaxAttempts:  5,
		BaseDelay:    1 * time.Second,
		MaxDelay:     30 * time.Second,
		PollInterval: 5 * time.Second,
	}
}

// PanelConfig holds settings for one dashboard feature panel.
type PanelConfig struct {
	ID           domain.PanelID `yaml:"id"            mapstructure:"id"`
	Title        string         `yaml:"title"         mapstructure:"title"`
	MaxStaleness time.Duration  `yaml:"max_staleness" mapstructure:"max_staleness"` // 0 = never stale
}
