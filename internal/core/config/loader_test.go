package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
panels:
  - id: campaign-overview
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	rc := cfg.Reconnect
	if !rc.Enabled || rc.MaxAttempts != 5 || rc.BaseDelay != 1*time.Second ||
		rc.MaxDelay != 30*time.Second || rc.PollInterval != 5*time.Second {
		t.Errorf("reconnect defaults wrong: %+v", rc)
	}
	if cfg.Panels[0].Title != "campaign-overview" {
		t.Errorf("panel title default = %q", cfg.Panels[0].Title)
	}
	if cfg.Panels[0].MaxStaleness != 30*time.Second {
		t.Errorf("panel staleness default = %v", cfg.Panels[0].MaxStaleness)
	}
}

func TestLoad_ExplicitValues(t *testing.T) {
	// durations are nanosecond integers in YAML
	path := writeConfig(t, `
server:
  port: 9090
reconnect:
  enabled: true
  max_attempts: 3
  base_delay: 500000000
  max_delay: 10000000000
panels:
  - id: live-calls
    title: Live Calls
    max_staleness: 15000000000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Reconnect.MaxAttempts != 3 || cfg.Reconnect.BaseDelay != 500*time.Millisecond {
		t.Errorf("reconnect config not honoured: %+v", cfg.Reconnect)
	}
	if cfg.Panels[0].MaxStaleness != 15*time.Second {
		t.Errorf("staleness = %v, want 15s", cfg.Panels[0].MaxStaleness)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("LIVEBOARD_REDIS_URL", "redis://cache.internal:6379/0")
	path := writeConfig(t, `
redis:
  url: ${LIVEBOARD_REDIS_URL}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Redis.URL != "redis://cache.internal:6379/0" {
		t.Errorf("env expansion failed: %q", cfg.Redis.URL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
