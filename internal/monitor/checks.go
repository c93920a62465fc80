package monitor

import (
	"context"
	"fmt"

	"envwatch/internal/logging"
	"envwatch/internal/notifications"
)

const rotationTitle = "Rotation Required"

// CheckRotation reports rotation-enabled secrets whose next rotation is due
// and raises a notification when any are found.
func (m *Monitor) CheckRotation(ctx context.Context) {
	if !m.running.Load() {
		return
	}
	m.checkMu.Lock()
	defer m.checkMu.Unlock()
	if !m.running.Load() {
		return
	}
	ctx = logging.WithCheck(ctx, CheckRotation)

	refs, err := m.source.DueForRotation(ctx, m.now())
	if err != nil {
		m.checkFailed(ctx, "rotation check failed", "rotation_check_failed", err)
		return
	}
	if len(refs) == 0 || !m.running.Load() {
		return
	}

	summary := countPhrase(len(refs), "secret needs rotation", "secrets need rotation")
	lines := []string{m.paint(ansiYellow, "⚠️ "+summary)}
	for _, ref := range refs {
		lines = append(lines, listIndent+ref.String())
	}
	m.printLines(lines)
	m.sendNotification(ctx, rotationTitle, summary, len(refs))
}

// CheckUnusedVariables reports variables not updated within the configured
// window, listing at most the configured number of entries.
func (m *Monitor) CheckUnusedVariables(ctx context.Context) {
	if !m.running.Load() {
		return
	}
	m.checkMu.Lock()
	defer m.checkMu.Unlock()
	if !m.running.Load() {
		return
	}
	ctx = logging.WithCheck(ctx, CheckUnused)

	cutoff := m.now().Add(-m.settings.UnusedAfter())
	refs, err := m.source.UnusedSince(ctx, cutoff)
	if err != nil {
		m.checkFailed(ctx, "unused variable check failed", "unused_check_failed", err)
		return
	}
	if len(refs) == 0 || !m.running.Load() {
		return
	}

	header := fmt.Sprintf("📦 %s unused for %d+ days",
		countPhrase(len(refs), "variable", "variables"), m.settings.UnusedAfterDays)
	lines := []string{m.paint(ansiYellow, header)}
	limit := m.settings.UnusedListLimit
	for i, ref := range refs {
		if i >= limit {
			break
		}
		lines = append(lines, listIndent+ref.String())
	}
	if extra := len(refs) - limit; extra > 0 {
		lines = append(lines, fmt.Sprintf("%s... and %d more", listIndent, extra))
	}
	m.printLines(lines)
}

// CheckDuplicates reports values shared by more than one variable. Only the
// keys and counts are printed.
func (m *Monitor) CheckDuplicates(ctx context.Context) {
	if !m.running.Load() {
		return
	}
	m.checkMu.Lock()
	defer m.checkMu.Unlock()
	if !m.running.Load() {
		return
	}
	ctx = logging.WithCheck(ctx, CheckDuplicates)

	groups, err := m.source.DuplicateValues(ctx)
	if err != nil {
		m.checkFailed(ctx, "duplicate check failed", "duplicate_check_failed", err)
		return
	}
	if len(groups) == 0 || !m.running.Load() {
		return
	}

	header := "🔁 " + countPhrase(len(groups), "duplicate value found", "duplicate values found")
	lines := []string{m.paint(ansiYellow, header)}
	for i, group := range groups {
		if i >= m.settings.DuplicateListLimit {
			break
		}
		lines = append(lines, fmt.Sprintf("%s%s (%d times)", listIndent, group.Keys, group.Count))
	}
	m.printLines(lines)
}

// DisplayStatus prints variable, secret, and due-rotation totals. Query
// failures produce no output.
func (m *Monitor) DisplayStatus(ctx context.Context) {
	m.checkMu.Lock()
	defer m.checkMu.Unlock()

	stats, err := m.source.Stats(ctx, m.now())
	if err != nil {
		return
	}

	due := m.printer.Sprintf("%d", stats.RotationDue)
	if stats.RotationDue > 0 {
		due = m.paint(ansiYellow, due)
	}
	m.printLines([]string{
		m.paint(ansiBlue, "📊 Status"),
		fmt.Sprintf("%s%-18s %s", listIndent, "Variables:", m.printer.Sprintf("%d", stats.Variables)),
		fmt.Sprintf("%s%-18s %s", listIndent, "Secrets:", m.printer.Sprintf("%d", stats.Secrets)),
		fmt.Sprintf("%s%-18s %s", listIndent, "Due for rotation:", due),
	})
}

func (m *Monitor) sendNotification(ctx context.Context, title, message string, count int) {
	_ = m.notifier.Publish(ctx, notifications.EventRotationRequired, notifications.Payload{
		"title":   title,
		"message": message,
		"count":   count,
	})
}

func (m *Monitor) checkFailed(ctx context.Context, msg, eventType string, err error) {
	if !m.running.Load() {
		return
	}
	logging.ErrorWithContext(logging.WithContext(ctx, m.logger), msg, eventType,
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "verify the variables database is readable"),
	)
}
