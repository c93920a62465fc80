package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"envwatch/internal/config"
	"envwatch/internal/monitor"
	"envwatch/internal/store"
	"envwatch/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *store.Store
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("ENVWATCH_DATABASE", "")
	t.Setenv("ENVWATCH_NTFY_TOPIC", "")
	cfg := testsupport.NewConfig(t, opts...)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "envwatch.toml")
	writeTestConfig(t, configPath, cfg)

	st := testsupport.MustOpenStore(t, cfg)
	return &cliTestEnv{cfg: cfg, store: st, configPath: configPath}
}

func (e *cliTestEnv) seed(t *testing.T) {
	t.Helper()
	now := time.Now().UTC()
	prod := testsupport.MustEnvironment(t, e.store, "prod")
	dev := testsupport.MustEnvironment(t, e.store, "dev")
	testsupport.MustVariable(t, e.store, prod, "DB_PASSWORD", "hunter2", testsupport.Secret(now.Add(-time.Hour)))
	testsupport.MustVariable(t, e.store, prod, "API_TOKEN", "tok", testsupport.Secret(now.Add(24*time.Hour)))
	testsupport.MustVariable(t, e.store, dev, "DB_PASSWORD", "hunter2")
	testsupport.MustVariable(t, e.store, dev, "LEGACY_FLAG", "on", testsupport.UpdatedAt(now.AddDate(0, 0, -45)))
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--no-color"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
database_path = %q
log_dir = %q

[notifications]
desktop = false
ntfy_topic = %q

[logging]
level = "error"
`,
		cfg.Paths.DataDir,
		cfg.Paths.DatabasePath,
		cfg.Paths.LogDir,
		cfg.Notifications.NtfyTopic,
	)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestMonitorWithoutConfigFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.toml")
	_, _, err := runCLI(t, []string{"monitor"}, missing)
	if !errors.Is(err, monitor.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(filepath.Dir(missing), "monitor.lock")); !os.IsNotExist(statErr) {
		t.Fatal("no lock should be taken without config")
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "📊 Status")
	requireContains(t, out, "Variables:         4")
	requireContains(t, out, "Secrets:           2")
	requireContains(t, out, "Due for rotation:  1")
	requireContains(t, out, "[WARN] Not running")
	requireContains(t, out, env.cfg.Paths.DatabasePath)
}

func TestCheckCommandRunsSelectedCheck(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t)

	out, _, err := runCLI(t, []string{"check", "rotation"}, env.configPath)
	if err != nil {
		t.Fatalf("check rotation: %v", err)
	}
	requireContains(t, out, "⚠️ 1 secret needs rotation")
	requireContains(t, out, "prod/DB_PASSWORD")
	if strings.Contains(out, "unused") || strings.Contains(out, "duplicate") {
		t.Fatalf("only the rotation check should run, got %q", out)
	}
}

func TestCheckCommandAll(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "1 secret needs rotation")
	requireContains(t, out, "📦 1 variable unused for 30+ days")
	requireContains(t, out, "dev/LEGACY_FLAG")
	requireContains(t, out, "🔁 1 duplicate value found")
	requireContains(t, out, "DB_PASSWORD, DB_PASSWORD (2 times)")
	if strings.Contains(out, "hunter2") {
		t.Fatal("duplicate values must not be printed")
	}
}

func TestCheckCommandRejectsUnknownCheck(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"check", "bogus"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown check")
	}
}

func TestReportCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t)

	out, _, err := runCLI(t, []string{"report"}, env.configPath)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	requireContains(t, out, "== Due for rotation ==")
	requireContains(t, out, "== Unused for 30+ days ==")
	requireContains(t, out, "== Duplicate values ==")
	requireContains(t, out, "LEGACY_FLAG")
	requireContains(t, out, "DB_PASSWORD, DB_PASSWORD")
	requireContains(t, out, "╭")
}

func TestReportCommandEmptyStore(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"report"}, env.configPath)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if strings.Count(out, "None") != 3 {
		t.Fatalf("expected three empty sections, got %q", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ENVWATCH_DATABASE", "")
	target := filepath.Join(home, "custom", "envwatch.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file: %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v\n%s", err, out)
	}
	requireContains(t, out, "Config path: "+target)
	requireContains(t, out, "[OK]")
	requireContains(t, out, "Configuration valid")
}

func TestTestNotifyUsesNtfy(t *testing.T) {
	var titles []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		titles = append(titles, r.Header.Get("Title"))
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithNtfyTopic(server.URL))
	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if len(titles) != 1 || titles[0] != "envwatch - Test" {
		t.Fatalf("unexpected ntfy requests %v", titles)
	}
}

func TestTestNotifyDisabled(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notifications disabled")
}

func TestRenderStatusLine(t *testing.T) {
	got := renderStatusLine("Monitor", statusError, "Not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Monitor:", "[ERROR] Not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
	colored := renderStatusLine("Monitor", statusOK, "Running", true)
	if !strings.HasPrefix(colored, ansiGreen) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected green line, got %q", colored)
	}
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}
