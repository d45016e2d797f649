package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger(t *testing.T, mutate func(*Config)) (*Logger, *bytes.Buffer) {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Level = "trace"
	cfg.Format = "json"
	if mutate != nil {
		mutate(cfg)
	}
	var buf bytes.Buffer
	logger, err := newLogger(cfg, nil, zapcore.AddSync(&buf))
	require.NoError(t, err)
	return logger, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNewLogger_OTELOnlyWithoutProvider(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output = OutputConfig{OTEL: true}

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one output")
}

func TestNewLogger_WithOTELProvider(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output = OutputConfig{OTEL: true}

	logger, err := NewLogger(cfg, noop.NewLoggerProvider())
	require.NoError(t, err)
	logger.Warn(context.Background(), "bridged")
	assert.False(t, logger.Enabled(zapcore.InfoLevel))
	assert.NoError(t, logger.Sync())
}

func TestLogger_LevelsAndFields(t *testing.T) {
	logger, buf := newBufferLogger(t, nil)
	ctx := WithCommand(WithRunID(context.Background(), "run-1"), "ctxhealth analyze")

	logger.Trace(ctx, "pattern matched", zap.Int("index", 3))
	logger.Info(ctx, "analysis complete")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "trace", lines[0]["level"])
	assert.Equal(t, "pattern matched", lines[0]["msg"])
	assert.EqualValues(t, 3, lines[0]["index"])
	assert.Equal(t, "run-1", lines[0]["run.id"])
	assert.Equal(t, "ctxhealth analyze", lines[0]["command"])
	assert.Equal(t, "ctxeng", lines[0]["service"])
	assert.Equal(t, "info", lines[1]["level"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, func(c *Config) { c.Level = "warn" })
	ctx := context.Background()

	logger.Debug(ctx, "hidden")
	logger.Info(ctx, "hidden")
	logger.Warn(ctx, "shown")
	logger.Error(ctx, "shown too")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.False(t, logger.Enabled(TraceLevel))
	assert.True(t, logger.Enabled(zapcore.ErrorLevel))
}

func TestLogger_WithAndNamed(t *testing.T) {
	logger, buf := newBufferLogger(t, nil)

	child := logger.Named("health").With(zap.String("component", "analyzer"))
	child.Info(context.Background(), "hello")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "health", lines[0]["logger"])
	assert.Equal(t, "analyzer", lines[0]["component"])
}

func TestLogger_Redaction(t *testing.T) {
	logger, buf := newBufferLogger(t, nil)
	ctx := context.Background()

	logger.With(zap.String("token", "abc123")).Info(ctx, "with field")
	logger.Info(ctx, "call field", zap.String("api_key", "xyz"))
	logger.Info(ctx, "pattern field", zap.String("note", "Authorization: Bearer eyJhbGciOi"))
	logger.Info(ctx, "key sk-abcdefghijklmnopqrstuv in message")
	logger.Info(ctx, "length only", RedactedString("summary", "twelve chars"))

	out := buf.String()
	assert.NotContains(t, out, "abc123")
	assert.NotContains(t, out, "xyz")
	assert.NotContains(t, out, "eyJhbGciOi")
	assert.NotContains(t, out, "sk-abcdefghijklmnopqrstuv")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 5)
	assert.Equal(t, "[REDACTED]", lines[0]["token"])
	assert.Equal(t, "[REDACTED]", lines[1]["api_key"])
	assert.Equal(t, "[REDACTED:pattern]", lines[2]["note"])
	assert.Equal(t, "key [REDACTED:pattern] in message", lines[3]["msg"])
	assert.Equal(t, "[REDACTED:12]", lines[4]["summary"])
}

func TestLogger_RedactionDisabled(t *testing.T) {
	logger, buf := newBufferLogger(t, func(c *Config) { c.Redaction.Enabled = false })

	logger.Info(context.Background(), "plain", zap.String("token", "abc123"))

	assert.Contains(t, buf.String(), "abc123")
}

func TestNewRedactingEncoder_RejectsLongPattern(t *testing.T) {
	_, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{
		Enabled:  true,
		Patterns: []string{strings.Repeat("a", maxPatternLen+1)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too long")
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error(context.Background(), "dropped")
	assert.False(t, l.Enabled(zapcore.ErrorLevel))
	assert.NoError(t, l.Sync())
}

func TestNewLoggerTo(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "json"

	var buf bytes.Buffer
	logger, err := NewLoggerTo(cfg, nil, &buf)
	require.NoError(t, err)

	logger.Info(context.Background(), "dropped below warn")
	logger.Warn(context.Background(), "kept")
	require.NoError(t, logger.Sync())

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["msg"])
	assert.Equal(t, "ctxeng", lines[0]["service"])
}
