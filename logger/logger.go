package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"
)

type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New builds a JSON logger writing to w at the given level
func New(service string, w io.Writer, level slog.Level) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return New("discard", io.Discard, slog.LevelError+1)
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) attrs(action, requestID string) []slog.Attr {
	return []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
}

func (l *Logger) Info(action, requestID, message string) {
	l.handler.LogAttrs(context.TODO(), slog.LevelInfo, message, l.attrs(action, requestID)...)
}

func (l *Logger) Debug(action, requestID, message string) {
	l.handler.LogAttrs(context.TODO(), slog.LevelDebug, message, l.attrs(action, requestID)...)
}

func (l *Logger) Warn(action, requestID, message string) {
	l.handler.LogAttrs(context.TODO(), slog.LevelWarn, message, l.attrs(action, requestID)...)
}

func (l *Logger) Error(action, requestID, message string, err error) {
	attrs := l.attrs(action, requestID)
	if err != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("msg", err.Error()),
			slog.String("stack", string(debug.Stack())),
		))
	}
	l.handler.LogAttrs(context.TODO(), slog.LevelError, message, attrs...)
}
