// Package observability provides structured logging for coverdesk.
//
// Logger wraps log/slog with a session id and a component name that are
// attached to every record. A nil *Logger is valid and discards everything.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// Options configures NewLogger. Zero values mean text output at warn level
// on os.Stderr.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// Logger wraps slog with persistent session context.
type Logger struct {
	inner     *slog.Logger
	session   string
	component string
}

// NewLogger creates a logger for one session. The session id is a fresh
// time-ordered UUID.
func NewLogger(component string, opts Options) *Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: parseLevel(opts.Level)}

	var h slog.Handler
	if strings.EqualFold(opts.Format, types.LogFormatJSON) {
		h = slog.NewJSONHandler(w, ho)
	} else {
		h = slog.NewTextHandler(w, ho)
	}
	return NewLoggerWithHandler(component, h)
}

// NewLoggerWithHandler creates a logger with a custom slog handler.
func NewLoggerWithHandler(component string, h slog.Handler) *Logger {
	session := newSessionID()
	return &Logger{
		inner:     slog.New(h).With(slog.String("session", session)),
		session:   session,
		component: component,
	}
}

// Nop returns a logger that discards all output.
func Nop() *Logger {
	return NewLoggerWithHandler("nop", slog.NewTextHandler(io.Discard, nil))
}

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Component returns a logger that shares the session but reports a
// different component.
func (l *Logger) Component(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{inner: l.inner, session: l.session, component: name}
}

// With returns a new Logger with an additional persistent field.
func (l *Logger) With(key string, value any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{
		inner:     l.inner.With(slog.Any(key, value)),
		session:   l.session,
		component: l.component,
	}
}

// sessionID returns the session id attached to every record.
func (l *Logger) sessionID() string {
	if l == nil {
		return ""
	}
	return l.session
}

// ComponentName returns the component associated with this logger.
func (l *Logger) ComponentName() string {
	if l == nil {
		return ""
	}
	return l.component
}

func (l *Logger) log(level slog.Level, msg string, args []any) {
	if l == nil {
		return
	}
	l.inner.Log(context.Background(), level, msg, append([]any{slog.String("component", l.component)}, args...)...)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }

// Info logs at INFO level.
func (l *Logger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args) }

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args) }

// Error logs at ERROR level.
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

// LineSkipped logs a backing file line the loader could not decode.
func (l *Logger) LineSkipped(path string, line int, err error) {
	l.Warn("line skipped",
		slog.String("path", path),
		slog.Int("line", line),
		slog.String("error", err.Error()))
}

// Loaded logs the outcome of an initial load.
func (l *Logger) Loaded(r types.LoadReport) {
	l.Info("file loaded",
		slog.String("path", r.Path),
		slog.Int("lines", r.Lines),
		slog.Int("loaded", r.Loaded),
		slog.Int("skipped", r.Skipped))
}

// StoreFailure logs a failed write to a backing file.
func (l *Logger) StoreFailure(op, path string, err error) {
	l.Error("store write failed",
		slog.String("op", op),
		slog.String("path", path),
		slog.String("error", err.Error()))
}

// Mutation logs a successful change to a stored record. Key is the user
// name or policy id, never a credential.
func (l *Logger) Mutation(op, entity string, key any) {
	l.Info("record changed",
		slog.String("op", op),
		slog.String("entity", entity),
		slog.Any("key", key))
}

// Login logs an authentication attempt.
func (l *Logger) Login(user string, ok bool) {
	level := slog.LevelInfo
	if !ok {
		level = slog.LevelWarn
	}
	l.log(level, "login", []any{slog.String("user", user), slog.Bool("ok", ok)})
}
