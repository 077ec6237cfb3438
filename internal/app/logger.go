package app

import (
	"io"
	"log/slog"
)

// newLogger builds the logger an App instance runs with. The logger is
// scoped to the instance rather than installed globally, so several apps
// (and their tests) can log to isolated writers. Any format other than
// "json" renders as text, matching the CLI default.
func newLogger(level, format string, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// parseLevel maps the config spelling of a log level onto slog's. Unknown
// spellings fall back to info; the CLI rejects them before they get here.
func parseLevel(level string) slog.Level {
	switch level {
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
