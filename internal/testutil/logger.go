package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards everything. Tests use it to keep
// suite output quiet.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
