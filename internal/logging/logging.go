// Package logging provides the two kinds of output localesync produces.
//
// Diagnostics go through a *slog.Logger built by Setup and passed to the
// engines explicitly. Operator-facing lines (selection lists, confirmations,
// run summaries) go through a Printer, which prefixes a status glyph and
// styles the text with lipgloss when the destination is a terminal:
//
//	p := logging.NewPrinter(os.Stdout, os.Stderr)
//	p.Info("Loading %s", path)
//	p.Success("Synced %d files", n)
//	p.Warning("Target missing: %s", dir)
//	p.Error("git pull failed: %v", err)
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Setup builds the diagnostic logger. Unknown levels fall back to info and
// any format other than "json" produces text output.
func Setup(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a --log-level value to a slog level.
func ParseLevel(level string) slog.Level {
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

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
