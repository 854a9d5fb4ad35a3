package cli

import (
	"bytes"
	"context"
	"log/slog"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetly/internal/log"
)

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := SetupLogger(&buf, "warn", log.ComponentApp)

	logger.InfoContext(context.Background(), "quiet")
	logger.WarnContext(context.Background(), "loud")
	slog.Warn("via default")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "via default")
}

func TestGracefulShutdownOnSignal(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.NewTextConfig(&buf, slog.LevelInfo, log.ComponentApp))

	ctx, cancel := GracefulShutdown(context.Background(), logger)
	defer cancel()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after SIGTERM")
	}
}
