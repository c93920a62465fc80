package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"envwatch/internal/config"
)

// Check names accepted by RunOnce and reported by ScheduledChecks.
const (
	CheckRotation   = "rotation"
	CheckUnused     = "unused"
	CheckDuplicates = "duplicates"
)

// CheckNames lists every check in execution order.
func CheckNames() []string {
	return []string{CheckRotation, CheckUnused, CheckDuplicates}
}

// ScheduledCheck describes one registered cron entry.
type ScheduledCheck struct {
	Name  string
	Every time.Duration
	Next  time.Time
}

type scheduledEntry struct {
	name  string
	every time.Duration
	id    cron.EntryID
}

func (m *Monitor) schedule(ctx context.Context, settings config.Monitor) (*cron.Cron, []scheduledEntry) {
	clog := cronLogger{logger: m.logger}
	sched := cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)

	plan := []struct {
		name  string
		every time.Duration
	}{
		{CheckRotation, settings.RotationEvery()},
		{CheckUnused, settings.UnusedEvery()},
		{CheckDuplicates, settings.DuplicateEvery()},
	}

	entries := make([]scheduledEntry, 0, len(plan))
	for _, p := range plan {
		run, _ := m.checkByName(p.name)
		id := sched.Schedule(cron.Every(p.every), cron.FuncJob(func() {
			run(ctx)
		}))
		entries = append(entries, scheduledEntry{name: p.name, every: p.every, id: id})
	}
	return sched, entries
}

func (m *Monitor) checkByName(name string) (func(context.Context), bool) {
	switch name {
	case CheckRotation:
		return m.CheckRotation, true
	case CheckUnused:
		return m.CheckUnusedVariables, true
	case CheckDuplicates:
		return m.CheckDuplicates, true
	default:
		return nil, false
	}
}

// ScheduledChecks returns the registered entries, empty when stopped.
func (m *Monitor) ScheduledChecks() []ScheduledCheck {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	if m.sched == nil {
		return nil
	}
	out := make([]ScheduledCheck, 0, len(m.entries))
	for _, entry := range m.entries {
		out = append(out, ScheduledCheck{
			Name:  entry.name,
			Every: entry.every,
			Next:  m.sched.Entry(entry.id).Next,
		})
	}
	return out
}

// cronLogger routes scheduler diagnostics into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("scheduler "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{"error", err}, keysAndValues...)
	l.logger.Error("scheduler "+msg, args...)
}
