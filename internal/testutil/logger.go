// Package testutil provides logging helpers for tests.
package testutil

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug-level logger routed through t.Log, so
// output shows up only for failing tests or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return newDebugLogger(tbWriter{tb: t})
}

// NewCaptureLogger returns a debug-level logger together with the buffer
// it writes to, for asserting on emitted records.
func NewCaptureLogger(t testing.TB) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return newDebugLogger(&buf), &buf
}

func newDebugLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// tbWriter forwards each handler write as one t.Log call.
type tbWriter struct {
	tb testing.TB
}

func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}
