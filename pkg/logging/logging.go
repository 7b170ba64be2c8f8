package logging

import (
	"io"
	"log/slog"
	"os"
)

// Options controls the process-wide logger. Verbose and JSON mirror the
// persistent CLI flags of the same names.
type Options struct {
	Verbose bool      // debug level instead of warnings only
	JSON    bool      // one JSON record per line instead of text
	Writer  io.Writer // destination, os.Stderr when nil
}

// Init installs the process-wide default logger for an entry point.
// Results print to stdout, so records always go to the writer. Detection,
// remapping, and engine traces log at debug and only show up under
// Verbose.
func Init(opts Options) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(writer, hopts)
	if opts.JSON {
		handler = slog.NewJSONHandler(writer, hopts)
	}

	slog.SetDefault(slog.New(handler))
}

// New returns a child of the default logger tagged with the entry surface
// it serves, "cli" or "mcp".
func New(surface string) *slog.Logger {
	return slog.Default().With(slog.String("surface", surface))
}

// Discard returns a logger that drops everything. Library packages fall
// back to it when their options carry no logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}
