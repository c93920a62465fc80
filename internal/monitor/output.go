package monitor

import (
	"fmt"
	"strings"
	"time"

	"envwatch/internal/config"
)

const (
	ansiReset  = "\x1b[0m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiGreen  = "\x1b[32m"
)

const listIndent = "   "

func (m *Monitor) paint(color, text string) string {
	if !m.colorize || color == "" {
		return text
	}
	return color + text + ansiReset
}

func (m *Monitor) println(line string) {
	m.printLines([]string{line})
}

func (m *Monitor) printLines(lines []string) {
	m.outMu.Lock()
	defer m.outMu.Unlock()
	fmt.Fprintln(m.out, strings.Join(lines, "\n"))
}

func (m *Monitor) printBanner(settings config.Monitor) {
	m.printLines([]string{
		m.paint(ansiGreen, "🔐 envwatch monitor running"),
		fmt.Sprintf("%s%-18s every %s", listIndent, "Rotation check:", formatEvery(settings.RotationEvery())),
		fmt.Sprintf("%s%-18s every %s", listIndent, "Unused check:", formatEvery(settings.UnusedEvery())),
		fmt.Sprintf("%s%-18s every %s", listIndent, "Duplicate check:", formatEvery(settings.DuplicateEvery())),
		listIndent + "Press Ctrl+C to stop",
	})
}

func formatEvery(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return d.String()
	}
}

// countPhrase renders "1 secret needs rotation" or "3 secrets need rotation".
func countPhrase(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
