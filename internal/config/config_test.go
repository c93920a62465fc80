package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"envwatch/internal/config"
)

func TestLoadWithoutFileReturnsDefaultsAndReportsMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ENVWATCH_DATABASE", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "envwatch", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}

	wantData := filepath.Join(tempHome, ".local", "share", "envwatch")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.DatabasePath != filepath.Join(wantData, "envwatch.db") {
		t.Fatalf("unexpected database path: %q", cfg.Paths.DatabasePath)
	}
	if cfg.Monitor.RotationEvery() != time.Minute {
		t.Fatalf("expected 1m rotation cadence, got %s", cfg.Monitor.RotationEvery())
	}
	if cfg.Monitor.UnusedEvery() != time.Hour || cfg.Monitor.DuplicateEvery() != time.Hour {
		t.Fatalf("expected hourly unused/duplicate cadence, got %s/%s", cfg.Monitor.UnusedEvery(), cfg.Monitor.DuplicateEvery())
	}
	if cfg.Monitor.UnusedAfter() != 30*24*time.Hour {
		t.Fatalf("unexpected unused cutoff: %s", cfg.Monitor.UnusedAfter())
	}
	if cfg.Monitor.UnusedListLimit != 10 || cfg.Monitor.DuplicateListLimit != 5 {
		t.Fatalf("unexpected list limits: %d/%d", cfg.Monitor.UnusedListLimit, cfg.Monitor.DuplicateListLimit)
	}
	if !cfg.Notifications.Desktop || !cfg.Notifications.Sound {
		t.Fatal("expected desktop notifications with sound by default")
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "custom.toml")
	content := `
[paths]
data_dir = "~/vault"
database_path = "~/vault/vars.sqlite"

[monitor]
rotation_interval = 30
unused_list_limit = 3

[notifications]
desktop = false
ntfy_topic = "https://ntfy.example/envwatch"

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "vault") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.DatabasePath != filepath.Join(tempHome, "vault", "vars.sqlite") {
		t.Fatalf("unexpected database path: %q", cfg.Paths.DatabasePath)
	}
	if cfg.Monitor.RotationEvery() != 30*time.Second {
		t.Fatalf("unexpected rotation cadence: %s", cfg.Monitor.RotationEvery())
	}
	if cfg.Monitor.UnusedListLimit != 3 {
		t.Fatalf("unexpected unused list limit: %d", cfg.Monitor.UnusedListLimit)
	}
	if cfg.Monitor.DuplicateListLimit != 5 {
		t.Fatalf("expected default duplicate limit to survive partial file, got %d", cfg.Monitor.DuplicateListLimit)
	}
	if cfg.Notifications.Desktop {
		t.Fatal("expected desktop notifications disabled")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging settings, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadUsesEnvironmentFallbacks(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	dbPath := filepath.Join(tempHome, "elsewhere", "store.db")
	t.Setenv("ENVWATCH_DATABASE", dbPath)
	t.Setenv("ENVWATCH_NTFY_TOPIC", "https://ntfy.example/topic")

	cfg, _, _, err := config.Load(filepath.Join(tempHome, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DatabasePath != dbPath {
		t.Fatalf("expected database path from env, got %q", cfg.Paths.DatabasePath)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.example/topic" {
		t.Fatalf("expected ntfy topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "zero rotation interval",
			mutate:  func(c *config.Config) { c.Monitor.RotationInterval = 0 },
			wantErr: "monitor.rotation_interval must be positive",
		},
		{
			name:    "negative duplicate limit",
			mutate:  func(c *config.Config) { c.Monitor.DuplicateListLimit = -1 },
			wantErr: "monitor.duplicate_list_limit must be positive",
		},
		{
			name:    "ntfy topic without scheme",
			mutate:  func(c *config.Config) { c.Notifications.NtfyTopic = "ntfy.sh/topic" },
			wantErr: "notifications.ntfy_topic",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *config.Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "missing database path",
			mutate:  func(c *config.Config) { c.Paths.DatabasePath = "" },
			wantErr: "paths.database_path",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.DatabasePath = "/tmp/envwatch.db"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ENVWATCH_DATABASE", "")
	target := filepath.Join(tempHome, "nested", "config.toml")

	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Monitor.RotationInterval != 60 {
		t.Fatalf("unexpected sample rotation interval: %d", decoded.Monitor.RotationInterval)
	}

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to be detected")
	}
	if cfg.Paths.DatabasePath != filepath.Join(tempHome, ".local", "share", "envwatch", "envwatch.db") {
		t.Fatalf("unexpected database path from sample: %q", cfg.Paths.DatabasePath)
	}
}
