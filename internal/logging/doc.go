// Package logging assembles structured slog loggers and formatting helpers used
// across beatsync.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing. Diagnostics default to stderr because stdout carries the
// machine-readable timeline. Context-aware helpers tag log lines with the run
// identifier and pipeline stage, and a no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
