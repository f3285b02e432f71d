// Package logging assembles structured slog loggers and formatting helpers used
// across ffjob.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so encode runs can tag log lines
// with job and correlation IDs. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Logs go to stderr by default; stdout is reserved for command output such as
// assembled command lines and JSON reports.
package logging
