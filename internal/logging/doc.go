// Package logging builds slog loggers with the console and JSON handlers used
// across the daemon and CLI, plus attr helpers, context field extraction, and
// log file retention.
package logging
