// Package logger configures the application slog logger and provides
// request-scoped loggers that are carried through the request context.
//
// Request state is never held in package-level variables - handlers and
// middleware retrieve the logger for the current request with
// ContextRequestLogger and attach extra attributes with ContextWithLogAttrs.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

type contextKey int

const (
	requestLoggerKey contextKey = iota
	logAttrsKey
)

// InitLogger creates the application logger and installs it as the slog
// default.
//
// In dev and test environments a human-readable tint handler is used; in
// prod and staging the handler emits JSON.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	var handler slog.Handler

	switch environment {
	case "prod", "staging":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}

	appLogger := slog.New(handler)
	slog.SetDefault(appLogger)

	return appLogger
}

// ParseLogLevel converts a LOG_LEVEL env string to a slog.Level.
// Unrecognized values fall back to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// attrCollector accumulates attributes added by middleware and handlers so
// the request logging middleware can include them in the final request log.
type attrCollector struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

func (c *attrCollector) add(attrs ...slog.Attr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs = append(c.attrs, attrs...)
}

func (c *attrCollector) all() []slog.Attr {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]slog.Attr, len(c.attrs))
	copy(out, c.attrs)
	return out
}

// ContextWithRequestLogger returns a context carrying a request-scoped logger
// and an empty attribute collector. Called once per request by the logging
// middleware.
func ContextWithRequestLogger(ctx context.Context, l *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, requestLoggerKey, l)
	return context.WithValue(ctx, logAttrsKey, &attrCollector{})
}

// ContextRequestLogger returns the request-scoped logger from the context.
// If the context has no request logger (e.g. in tests) the slog default is
// returned so callers never need to nil-check.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// ContextWithLogAttrs records attributes against the current request so the
// logging middleware can include them in the final request log line.
// Safe to call from any goroutine handling the request; a no-op if the
// context was not set up by the logging middleware.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	if c, ok := ctx.Value(logAttrsKey).(*attrCollector); ok {
		c.add(attrs...)
	}
}

// ContextLogAttrs returns the attributes recorded against the current
// request, in the order they were added.
func ContextLogAttrs(ctx context.Context) []slog.Attr {
	if c, ok := ctx.Value(logAttrsKey).(*attrCollector); ok {
		return c.all()
	}
	return nil
}
