// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, fanned out to an optional text log file, and carries
// request-scoped loggers on the context.
package logger
