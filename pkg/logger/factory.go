package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON logger on stdout at info level.
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewWithWriter(os.Stdout, slog.LevelInfo, extractors...)
}

// NewWithWriter returns a JSON logger writing records of at least level to
// w. The CLI uses it to keep stdout free for rendered output.
func NewWithWriter(w io.Writer, level slog.Leveler, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewContextHandler(h, extractors...))
}

// NewNope returns a logger that drops everything. Library types fall back
// to it when no logger is given.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
