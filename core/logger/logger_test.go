package logger_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/certsync/core/logger"
)

func TestNewTextDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Info("hello")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "level=INFO")
}

func TestNewJSONFormatter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("app", "certsync")),
	)

	log.Info("hello")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"app":"certsync"`)
}

func TestNewLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))

	log.Info("quiet")
	log.Warn("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestDebugDisabledByDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	require.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	log.Debug("invisible")
	assert.Empty(t, buf.String())
}

func TestErrorAttr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "boom", attr.Value.String())
}

func TestElapsedAttr(t *testing.T) {
	t.Parallel()

	attr := logger.Elapsed(time.Now().Add(-time.Second))
	assert.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), time.Second)
}

func TestCountAttr(t *testing.T) {
	t.Parallel()

	attr := logger.Count("renewed", 3)
	assert.Equal(t, "renewed", attr.Key)
	assert.Equal(t, int64(3), attr.Value.Int64())
}

func TestComponentAttr(t *testing.T) {
	t.Parallel()

	attr := logger.Component("store")
	assert.Equal(t, "component", attr.Key)
	assert.Equal(t, "store", attr.Value.String())
}

func TestStackAttr(t *testing.T) {
	t.Parallel()

	attr := logger.Stack()
	assert.Equal(t, "stack", attr.Key)
	assert.Contains(t, attr.Value.String(), "goroutine")
}
