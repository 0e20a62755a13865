// Package logger configures the process-wide slog JSON logger and carries
// request-scoped loggers (with trace and user ids attached) through
// context.Context.
package logger
