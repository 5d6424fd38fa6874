// Package logging assembles structured slog loggers and formatting helpers used
// across Studivio services.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so handlers and the ingestion
// pipeline can automatically tag log lines with correlation IDs, users, and
// ingestion states. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
