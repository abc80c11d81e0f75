// Package logging assembles structured slog loggers and formatting helpers used
// across ishe.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so session and server code can
// tag log lines with session IDs and correlation IDs. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
