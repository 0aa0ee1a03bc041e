package utils

import (
	"io"
	"log/slog"
)

// MustClose closes c and reports a failure on the slog default handler.
// name identifies the resource in the log line.
func MustClose(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close", "resource", name, "error", err)
	}
}
