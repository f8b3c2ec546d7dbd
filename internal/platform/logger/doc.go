// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. Loggers travel in the request context, and a
// ContextHandler copies context-scoped attributes (such as the trace id) onto
// every record written with a context.
package logger
