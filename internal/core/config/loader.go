package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if cfg.Reconnect == (ReconnectConfig{}) {
		cfg.Reconnect = DefaultReconnect()
	} else {
		if cfg.Reconnect.MaxAttempts == 0 {
			cfg.Reconnect.MaxAttempts = 5
		}
		if cfg.Reconnect.BaseDelay == 0 {
			cfg.Reconnect.BaseDelay = 1 * time.Second
		}
		if cfg.Reconnect.MaxDelay == 0 {
			cfg.Reconnect.MaxDelay = 30 * time.Second
		}
		if cfg.Reconnect.PollInterval == 0 {
			cfg.Reconnect.PollInterval = 5 * time.Second
		}
	}

	for i := range cfg.Panels {
		if cfg.Panels[i].Title == "" {
			cfg.Panels[i].Title = string(cfg.Panels[i].ID)
		}
		if cfg.Panels[i].MaxStaleness == 0 {
			cfg.Panels[i].MaxStaleness = 30 * time.Second
		}
	}

	return &cfg, nil
}
