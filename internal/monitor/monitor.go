package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"envwatch/internal/config"
	"envwatch/internal/logging"
	"envwatch/internal/notifications"
	"envwatch/internal/store"
)

// ErrNotConfigured is returned by Start when no configuration is available.
var ErrNotConfigured = errors.New("configuration not found")

// ErrAlreadyRunning is returned by Start when the monitor is already running.
var ErrAlreadyRunning = errors.New("monitor already running")

// Source is the read surface of the variables store used by the checks.
type Source interface {
	DueForRotation(ctx context.Context, now time.Time) ([]store.VariableRef, error)
	UnusedSince(ctx context.Context, cutoff time.Time) ([]store.VariableRef, error)
	DuplicateValues(ctx context.Context) ([]store.DuplicateGroup, error)
	Stats(ctx context.Context, now time.Time) (store.Stats, error)
}

// Monitor schedules and executes the store checks.
type Monitor struct {
	source   Source
	notifier notifications.Service
	logger   *slog.Logger
	out      io.Writer
	colorize bool
	now      func() time.Time
	printer  *message.Printer

	outMu    sync.Mutex
	checkMu  sync.Mutex
	settings config.Monitor

	running atomic.Bool

	lifeMu  sync.Mutex
	sched   *cron.Cron
	entries []scheduledEntry
	ctx     context.Context
	cancel  context.CancelFunc
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithOutput directs console output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(m *Monitor) {
		if w != nil {
			m.out = w
		}
	}
}

// WithColor toggles ANSI colors in console output.
func WithColor(enabled bool) Option {
	return func(m *Monitor) {
		m.colorize = enabled
	}
}

// WithClock replaces the time source used for cutoffs and rotation checks.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// New constructs a monitor reading from source and publishing through notifier.
func New(source Source, notifier notifications.Service, logger *slog.Logger, opts ...Option) (*Monitor, error) {
	if source == nil {
		return nil, errors.New("monitor requires a store")
	}
	if notifier == nil {
		notifier = notifications.NewService(nil, nil)
	}
	m := &Monitor{
		source:   source,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "monitor"),
		out:      os.Stdout,
		now:      time.Now,
		printer:  message.NewPrinter(language.English),
		settings: config.Default().Monitor,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Running reports whether the monitor is accepting check invocations.
func (m *Monitor) Running() bool {
	return m.running.Load()
}

// Start schedules the recurring checks, prints the startup banner, and shows
// the current status. A nil cfg returns ErrNotConfigured without scheduling.
func (m *Monitor) Start(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return ErrNotConfigured
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m.lifeMu.Lock()
	if m.sched != nil {
		m.lifeMu.Unlock()
		return ErrAlreadyRunning
	}
	settings := effectiveSettings(cfg.Monitor)
	m.checkMu.Lock()
	m.settings = settings
	m.checkMu.Unlock()

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.running.Store(true)

	sched, entries := m.schedule(m.ctx, settings)
	m.sched = sched
	m.entries = entries
	sched.Start()
	m.lifeMu.Unlock()

	m.logger.Info("monitor started",
		logging.String(logging.FieldEventType, "monitor_started"),
		logging.Duration("rotation_interval", settings.RotationEvery()),
		logging.Duration("unused_interval", settings.UnusedEvery()),
		logging.Duration("duplicate_interval", settings.DuplicateEvery()),
	)
	m.printBanner(settings)
	m.DisplayStatus(ctx)
	return nil
}

// Stop marks the monitor as stopped, removes every scheduled entry, and waits
// for an in-flight check to return. Calling Stop again is a no-op.
func (m *Monitor) Stop() {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	if m.sched == nil {
		m.running.Store(false)
		return
	}

	m.running.Store(false)
	for _, entry := range m.entries {
		m.sched.Remove(entry.id)
	}
	if m.cancel != nil {
		m.cancel()
	}
	<-m.sched.Stop().Done()
	// Wait for checks invoked outside the scheduler.
	m.checkMu.Lock()
	m.checkMu.Unlock()

	m.sched = nil
	m.entries = nil
	m.ctx, m.cancel = nil, nil

	m.logger.Info("monitor stopped", logging.String(logging.FieldEventType, "monitor_stopped"))
	m.println(m.paint(ansiBlue, "👋 Monitor stopped"))
}

// Run starts the monitor, blocks until ctx is done, then stops it.
func (m *Monitor) Run(ctx context.Context, cfg *config.Config) error {
	if err := m.Start(ctx, cfg); err != nil {
		return err
	}
	<-ctx.Done()
	m.Stop()
	return nil
}

// RunOnce executes the named checks immediately without scheduling anything.
// An empty list runs every check.
func (m *Monitor) RunOnce(ctx context.Context, cfg *config.Config, names ...string) error {
	if cfg == nil {
		return ErrNotConfigured
	}
	if len(names) == 0 {
		names = CheckNames()
	}
	checks := make([]func(context.Context), 0, len(names))
	for _, name := range names {
		fn, ok := m.checkByName(name)
		if !ok {
			return fmt.Errorf("unknown check %q", name)
		}
		checks = append(checks, fn)
	}

	m.lifeMu.Lock()
	if m.sched != nil {
		m.lifeMu.Unlock()
		return ErrAlreadyRunning
	}
	m.checkMu.Lock()
	m.settings = effectiveSettings(cfg.Monitor)
	m.checkMu.Unlock()
	m.running.Store(true)
	m.lifeMu.Unlock()
	defer m.running.Store(false)

	for _, check := range checks {
		check(ctx)
	}
	return nil
}

func effectiveSettings(in config.Monitor) config.Monitor {
	defaults := config.Default().Monitor
	out := in
	if out.RotationInterval <= 0 {
		out.RotationInterval = defaults.RotationInterval
	}
	if out.UnusedInterval <= 0 {
		out.UnusedInterval = defaults.UnusedInterval
	}
	if out.DuplicateInterval <= 0 {
		out.DuplicateInterval = defaults.DuplicateInterval
	}
	if out.UnusedAfterDays <= 0 {
		out.UnusedAfterDays = defaults.UnusedAfterDays
	}
	if out.UnusedListLimit <= 0 {
		out.UnusedListLimit = defaults.UnusedListLimit
	}
	if out.DuplicateListLimit <= 0 {
		out.DuplicateListLimit = defaults.DuplicateListLimit
	}
	return out
}
