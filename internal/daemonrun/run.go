package daemonrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"envwatch/internal/config"
	"envwatch/internal/daemon"
	"envwatch/internal/logging"
	"envwatch/internal/monitor"
	"envwatch/internal/notifications"
	"envwatch/internal/preflight"
	"envwatch/internal/store"
)

// Options configures monitor process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
	Color       bool
	Output      io.Writer
}

// Run starts the envwatch monitor and blocks until SIGINT, SIGTERM, or
// cancellation of cmdCtx. A nil cfg returns monitor.ErrNotConfigured before
// anything is opened or scheduled.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return monitor.ErrNotConfigured
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The lock decides before anything touches the log directory or PID file.
	lock, err := daemon.AcquireLock(cfg)
	if err != nil {
		return err
	}
	defer lock.Release()

	runStamp := time.Now().UTC().Format("20060102T150405.000Z")
	runID := uuid.NewString()
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("envwatch-%s.log", runStamp))

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr", logPath},
		Development: opts.Development,
		RunID:       runID,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update envwatch.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "envwatch-*.log", Exclude: []string{logPath}},
	)

	for _, failed := range preflight.Failed(preflight.RunAll(signalCtx, cfg)) {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", failed.Name),
			logging.String("detail", failed.Detail),
			logging.String(logging.FieldErrorHint, "run envwatch config validate"),
			logging.String(logging.FieldImpact, "monitor checks may fail"),
		)
	}

	pidPath := filepath.Join(cfg.Paths.DataDir, "envwatch.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	st, err := store.Open(cfg)
	if err != nil {
		logging.ErrorWithContext(logger, "open variables store", "store_open_failed",
			logging.Error(err),
			logging.String("database", cfg.Paths.DatabasePath),
			logging.String(logging.FieldErrorHint, "check paths.database_path"),
		)
		return err
	}

	notifier := notifications.NewService(cfg, logger)
	mon, err := monitor.New(st, notifier, logger, monitorOptions(opts)...)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("create monitor: %w", err)
	}
	d, err := daemon.New(cfg, st, mon, logger, daemon.WithLock(lock))
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	logStartup(logger, cfg, runID, logPath)
	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	<-signalCtx.Done()
	logger.Info("envwatch monitor shutting down", logging.String(logging.FieldEventType, "monitor_shutdown"))
	d.Stop()
	notifications.Wait(notifier)
	return nil
}

func monitorOptions(opts Options) []monitor.Option {
	out := []monitor.Option{monitor.WithColor(opts.Color)}
	if opts.Output != nil {
		out = append(out, monitor.WithOutput(opts.Output))
	}
	return out
}

func logStartup(logger *slog.Logger, cfg *config.Config, runID, logPath string) {
	logger.Info("monitor configuration",
		logging.String(logging.FieldEventType, "monitor_configuration"),
		logging.String(logging.FieldRunID, runID),
		logging.String("database", cfg.Paths.DatabasePath),
		logging.String("log_path", logPath),
		logging.Bool("desktop_notifications", cfg.Notifications.Desktop),
		logging.Bool("ntfy_configured", cfg.Notifications.NtfyTopic != ""),
		logging.Int("unused_after_days", cfg.Monitor.UnusedAfterDays),
	)
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "envwatch.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
