package testutils

import (
	"bytes"
	"log/slog"
)

// SetupTestLogger returns a debug-level logger and the buffer it writes to,
// so tests can assert on emitted log lines.
func SetupTestLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), buf
}
