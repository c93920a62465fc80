package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"envwatch/internal/config"
	"envwatch/internal/logging"
	"envwatch/internal/monitor"
	"envwatch/internal/store"
)

// ErrAlreadyRunning is returned when another process holds the monitor lock.
var ErrAlreadyRunning = errors.New("another envwatch monitor instance is already running")

// Daemon runs a Monitor under a single-instance lock.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	monitor *monitor.Monitor

	lockPath string
	lock     *Lock

	running atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	DatabasePath string
	LockFilePath string
	Checks       []monitor.ScheduledCheck
}

// Lock is a held single-instance monitor lock.
type Lock struct {
	path string
	fl   *flock.Flock
}

// AcquireLock takes the monitor lock for cfg without blocking. It returns
// ErrAlreadyRunning when another process holds it.
func AcquireLock(cfg *config.Config) (*Lock, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	path := cfg.LockPath()
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release unlocks the file. Releasing twice is a no-op.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return l.fl.Unlock()
}

// Option customizes a Daemon.
type Option func(*Daemon)

// WithLock hands an already acquired lock to the daemon. Start uses it instead
// of acquiring its own and Stop releases it.
func WithLock(lock *Lock) Option {
	return func(d *Daemon) { d.lock = lock }
}

// New constructs a daemon around an already built monitor.
func New(cfg *config.Config, st *store.Store, mon *monitor.Monitor, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil || mon == nil {
		return nil, errors.New("daemon requires config and monitor")
	}
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		monitor:  mon,
		lockPath: cfg.LockPath(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Start acquires the instance lock unless one was provided, then starts the
// monitor.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return monitor.ErrAlreadyRunning
	}
	if d.lock == nil {
		lock, err := AcquireLock(d.cfg)
		if err != nil {
			return err
		}
		d.lock = lock
	}

	if err := d.monitor.Start(ctx, d.cfg); err != nil {
		d.releaseLock()
		return fmt.Errorf("start monitor: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("envwatch daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts the monitor and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.monitor.Stop()
	d.releaseLock()
	d.running.Store(false)
	d.logger.Info("envwatch daemon stopped")
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Release(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release monitor lock", "lock_release_failed",
			logging.Error(err),
			logging.String("lock", d.lockPath),
			logging.String(logging.FieldErrorHint, "remove the lock file if no monitor is running"),
		)
	}
	d.lock = nil
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		DatabasePath: d.cfg.Paths.DatabasePath,
		LockFilePath: d.lockPath,
		Checks:       d.monitor.ScheduledChecks(),
	}
}
