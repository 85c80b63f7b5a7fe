package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("journey", "1.0.0", "json", "info", &buf)

	logger.Info("combat started", "enemy", "Slime")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "not json: %s", buf.String())
	assert.Equal(t, "combat started", entry["msg"])
	assert.Equal(t, "journey", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Equal(t, "Slime", entry["enemy"])
	assert.NotContains(t, entry, "trace_id")
}

func TestSetupText(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("journey", "dev", "text", "", &buf)

	logger.Info("game saved")

	assert.Contains(t, buf.String(), "game saved")
	assert.Contains(t, buf.String(), "service=journey")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("journey", "dev", "json", "warn", &buf)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("journey", "dev", "json", "debug", &buf)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.InfoContext(ctx, "encounter handled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
}

func TestWithAttrsKeepsService(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("journey", "dev", "json", "info", &buf).With("hero", "Aria")

	logger.Info("acting", "round", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Aria", entry["hero"])
	assert.Equal(t, "journey", entry["service"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
