// Package logger provides the slog factories used across the framework:
// a JSON stdout logger, a no-op logger for defaults, an optional Sentry
// destination, and a handler decorator that injects request-scoped context
// attributes (request ID, session ID) into every record.
package logger
