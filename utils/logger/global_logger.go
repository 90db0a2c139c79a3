package logger

import (
	"log/slog"
	"os"
)

// init sets up a fallback logger so packages and tests can use logger.Logger
// before Init runs.
func init() {
	if Logger == nil {
		Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))
	}
}
