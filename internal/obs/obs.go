// Package obs wires up the logger and run identifier used across the
// pipeline's components, the way the teacher wires a *slog.Logger and a
// UUIDv7 id through its services.
package obs

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// NewRunID generates a UUIDv7 identifier for one pipeline invocation, used
// to correlate debug log lines for a single run.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewLogger builds the pipeline's *slog.Logger. When debug is true, the
// logger is raised to Debug level so resolver passes log their per-listing
// decisions instead of the Emitter producing output, matching spec's debug
// toggle. Output always goes to stderr so stdout stays reserved for the
// emitted JSON-Lines records.
func NewLogger(debug bool, runID string) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("run_id", runID)
}
