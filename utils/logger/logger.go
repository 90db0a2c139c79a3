// Package logger provides structured logging for the feed refresher.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the global logger instance
var Logger *slog.Logger

// Config configures the global logger.
type Config struct {
	Level       string
	ServiceName string
	// OTelEnabled also ships records through the OpenTelemetry log bridge.
	OTelEnabled bool
}

// Init initializes a JSON logger with trace context support and sets it as
// the process default.
func Init(cfg Config) *slog.Logger {
	Logger = New(os.Stdout, cfg)
	slog.SetDefault(Logger)

	Logger.Info("Logger initialized", "level", parseLevel(cfg.Level).String(), "otel_enabled", cfg.OTelEnabled)

	return Logger
}

// New builds a logger writing JSON to w.
func New(w io.Writer, cfg Config) *slog.Logger {
	level := parseLevel(cfg.Level)

	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	})

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "feed-refresher"
	}

	var handler slog.Handler = jsonHandler
	if cfg.OTelEnabled {
		handler = NewMultiHandler(jsonHandler, newOTelHandler(serviceName))
	}
	// Outermost so both sinks see trace and job fields
	handler = NewTraceContextHandler(handler)

	return slog.New(handler).With("service", serviceName)
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, strings.ToLower(level.String()))
		}
	}
	return a
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
