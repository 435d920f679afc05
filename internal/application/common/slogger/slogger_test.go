package slogger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/common/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useBufferLogger(t *testing.T, level string) logging.ApplicationLogger {
	t.Helper()

	logger, err := logging.NewApplicationLogger(logging.Config{Level: level, Format: "json", Output: "buffer"})
	require.NoError(t, err)

	previous := getLogger()
	SetGlobalLogger(logger)
	t.Cleanup(func() { SetGlobalLogger(previous) })
	return logger
}

func TestFacadeWritesThroughGlobalLogger(t *testing.T) {
	logger := useBufferLogger(t, "DEBUG")
	ctx := logging.WithCorrelationID(context.Background(), "run-1")

	Debug(ctx, "debug entry", Fields{"line": 1})
	Info(ctx, "info entry", nil)
	Warn(ctx, "warn entry", nil)
	Error(ctx, "error entry", nil)
	ErrorWithError(ctx, errors.New("boom"), "failed entry", nil)
	LogPerformance(ctx, "stream", time.Millisecond, nil)
	InfoNoCtx("no ctx entry", nil)
	ErrorWithErrorNoCtx(errors.New("bang"), "no ctx failure", nil)

	output := logging.BufferedOutput(logger)
	for _, msg := range []string{
		"debug entry", "info entry", "warn entry", "error entry", "failed entry",
		"Performance metrics for stream", "no ctx entry", "no ctx failure", "run-1",
	} {
		assert.Contains(t, output, msg)
	}
}

func TestWithComponent(t *testing.T) {
	logger := useBufferLogger(t, "INFO")

	WithComponent("nats-responder").Info(context.Background(), "ready", nil)

	assert.Contains(t, logging.BufferedOutput(logger), `"component":"nats-responder"`)
}

func TestConfigure(t *testing.T) {
	previous := getLogger()
	t.Cleanup(func() { SetGlobalLogger(previous) })

	require.NoError(t, Configure(logging.Config{Level: "ERROR", Format: "text", Output: "buffer"}))
	assert.NotSame(t, previous, getLogger())

	err := Configure(logging.Config{Level: "LOUD", Format: "text", Output: "stderr"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configure logger")
}

func TestDefaultLoggerWritesToStderr(t *testing.T) {
	assert.Equal(t, "stderr", DefaultConfig().Output)
	assert.NotNil(t, (&LoggerManager{}).getLogger())
}
