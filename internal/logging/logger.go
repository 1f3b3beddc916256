// Package logging configures runtime diagnostic output.
package logging

import (
	"io"
	"log/slog"
)

// New builds a text logger on w with the level derived from the -v count:
// warnings only by default, informational at one -v, debug from two up.
func New(verbosity int, w io.Writer) *slog.Logger {
	var level slog.Level
	switch {
	case verbosity <= 0:
		level = slog.LevelWarn
	case verbosity == 1:
		level = slog.LevelInfo
	default:
		level = slog.LevelDebug
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
