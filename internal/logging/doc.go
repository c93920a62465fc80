// Package logging assembles structured slog loggers and formatting helpers used
// across envwatch.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so check code can tag log lines
// with the check name and the monitor run ID. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// User-facing monitor output (banners, warnings, status blocks) is not logging;
// it goes straight to the command's stdout. This package carries diagnostics,
// which default to stderr plus the per-run log file.
package logging
