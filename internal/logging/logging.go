// Package logging builds the diagnostic logger shared by the CLI.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/conn-castle/upgrade-ai/internal/terminal"
)

// New returns a tint-formatted logger writing to w. Verbose enables debug
// records; otherwise only warnings and errors are written. Color is used only
// when w is a terminal.
func New(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !terminal.IsTerminal(w),
	}))
}
