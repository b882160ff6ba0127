package logger_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/plus3/cutlass/logger"
	"github.com/stretchr/testify/assert"
)

func TestConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Output: &buf})

	log.Debug("hidden")
	log.Info("scheduler started", "tick_rate", 60)
	log.With("frame", 3).WithGroup("tick").Warn("dropped ticks", "count", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO  scheduler started  tick_rate=60")
	assert.Contains(t, lines[1], "WARN  dropped ticks  frame=3  tick.count=2")
}

func TestFormats(t *testing.T) {
	var buf bytes.Buffer
	logger.New(logger.Config{Format: "json", Output: &buf}).Info("hello", "n", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger.New(logger.Config{Format: "text", Output: &buf}).Info("hello", "n", 1)
	assert.Contains(t, buf.String(), "msg=hello n=1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("bogus"))
}
