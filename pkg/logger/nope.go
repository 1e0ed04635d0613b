package logger

import (
	"io"
	"log/slog"
)

// NewNope returns a logger that discards everything. Handy as a default in
// tests and constructors that accept a nil logger.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
