package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err")

	out := buf.String()
	require.Contains(t, out, "level=DEBUG")
	require.Contains(t, out, "msg=inf")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "msg=err")
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Info(context.Background(), "swallowed", "k", "v")
	log.With("module", "hub").Error(context.Background(), "also swallowed")
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	child := log.With("module", "hub")
	child.Info(context.Background(), "ready")

	require.Contains(t, buf.String(), "module=hub")
}
