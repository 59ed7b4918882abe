package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger returns a slog logger backed by a charm log handler on w. Verbose
// enables debug records.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "ising",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	return slog.New(handler)
}
