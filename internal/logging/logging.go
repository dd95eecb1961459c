// Package logging builds the process-wide structured logger. Every scanyard
// entry point logs JSON to stderr so stdout stays clean for results.
package logging

import (
	"log/slog"
	"os"
)

// New returns the service logger. verbose lowers the level to debug.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
