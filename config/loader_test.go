package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_LoadDefaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "netdecay" {
		t.Errorf("expected app name 'netdecay', got %s", cfg.App.Name)
	}
	if cfg.Network.DefaultCutoff != 1500.0 {
		t.Errorf("expected default cutoff 1500, got %v", cfg.Network.DefaultCutoff)
	}
	if cfg.Network.DefaultDecayKind != "no_decay" {
		t.Errorf("expected default decay kind 'no_decay', got %s", cfg.Network.DefaultDecayKind)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Log.Level)
	}
	if cfg.Metrics.Port != 9090 {
		t.Errorf("expected metrics port 9090, got %d", cfg.Metrics.Port)
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
app:
  name: custom-app
  environment: staging
network:
  default_cutoff: 800
log:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := NewLoader(WithConfigPaths(configPath)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "custom-app" {
		t.Errorf("expected app name 'custom-app', got %s", cfg.App.Name)
	}
	if cfg.App.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %s", cfg.App.Environment)
	}
	if cfg.Network.DefaultCutoff != 800 {
		t.Errorf("expected cutoff 800, got %v", cfg.Network.DefaultCutoff)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Log.Level)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("app:\n  name: file-app\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("NETDECAY_APP_NAME", "env-app")

	cfg, err := NewLoader(WithConfigPaths(configPath)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.App.Name != "env-app" {
		t.Errorf("expected env override 'env-app', got %s", cfg.App.Name)
	}
}

func TestConfig_ValidateRejectsBadDecayKind(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{Name: "x"},
		Network: NetworkConfig{DefaultCutoff: 1, DefaultDecayKind: "bogus"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unrecognized decay kind")
	}
}

func TestConfig_ValidateRejectsNonPositiveCutoff(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{Name: "x"},
		Network: NetworkConfig{DefaultCutoff: 0, DefaultDecayKind: "no_decay"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for non-positive cutoff")
	}
}
