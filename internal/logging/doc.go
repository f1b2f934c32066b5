// Package logging assembles the structured slog loggers used across tonearm
// components.
//
// It centralizes level and output plumbing and exposes small attribute
// helpers so voting topics, collaborator clients, and the daemon all emit
// log lines with the same shape. A no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
