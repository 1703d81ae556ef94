package internal

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// ParseLogLevel converts a string log level name to a slog.Level.
// Recognized values: "debug", "info", "warning"/"warn", "error".
// Defaults to slog.LevelInfo for unrecognized values.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("unknown log level, defaulting to info", "level", level)
		return slog.LevelInfo
	}
}

// SetupLogger configures the default slog logger with the given level.
// Interactive terminals get the text handler; anything else (pipes, CI,
// log collectors) gets JSON.
func SetupLogger(level string) {
	slog.SetDefault(slog.New(newHandler(os.Stderr, os.Stderr.Fd(), level)))
}

func newHandler(w io.Writer, fd uintptr, level string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(level)}
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
