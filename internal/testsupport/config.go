package testsupport

import (
	"path/filepath"
	"testing"

	"envwatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp directory per test.
// Desktop notifications are disabled so tests never touch the session bus.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.DatabasePath = filepath.Join(base, "data", "envwatch.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Notifications.Desktop = false
	cfgVal.Notifications.NtfyTopic = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithNtfyTopic points notifications at the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// WithListLimits overrides the unused and duplicate list truncation limits.
func WithListLimits(unused, duplicates int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Monitor.UnusedListLimit = unused
		b.cfg.Monitor.DuplicateListLimit = duplicates
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
