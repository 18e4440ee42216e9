package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the shared application logger. Level is controlled by the
// LOG_LEVEL environment variable (debug, info, warn, error).
var Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: parseLevel(os.Getenv("LOG_LEVEL")),
}))

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
