// Package logger provides structured logging on top of zerolog.
//
// Request-scoped fields (request id, admin username) travel in the
// context.Context, so any function that receives ctx logs with them.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger.
type Options struct {
	Service string
	Level   zerolog.Level
	Format  string // "json" (default) or "console"
	Output  io.Writer
}

// Logger wraps a base zerolog.Logger.
type Logger struct {
	base zerolog.Logger
}

type ctxKey struct{}

// New builds a logger writing JSON lines (or human-readable output when
// Format is "console").
func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	base := zerolog.New(out).
		With().
		Timestamp().
		Str("service", opts.Service).
		Logger().
		Level(opts.Level)
	return &Logger{base: base}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// Zerolog returns the underlying logger for code that takes a zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.base
}

// ParseLevel maps a config string onto a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}

func (l *Logger) from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return entry
		}
	}
	return &l.base
}

// WithField returns a context whose log lines carry key=value.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	entry := l.from(ctx).With().Interface(key, value).Logger()
	return context.WithValue(ctx, ctxKey{}, &entry)
}

// WithRequestID tags the context with a request id.
func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

// WithAdmin tags the context with the authenticated admin.
func (l *Logger) WithAdmin(ctx context.Context, username string) context.Context {
	return l.WithField(ctx, "admin", username)
}

// Event exposes a raw zerolog event for lines that need extra fields.
func (l *Logger) Event(ctx context.Context, level zerolog.Level) *zerolog.Event {
	return l.from(ctx).WithLevel(level)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.from(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.from(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	l.from(ctx).Warn().Msg(msg)
}

func (l *Logger) Error(ctx context.Context, msg string, err error) {
	event := l.from(ctx).Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}
