package tracing_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etsvibes/ets-vibes/pkg/tracing"
)

func TestLoggingTracer(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	span := tracing.NewLoggingTracer(logger).StartSpan("edit_save")
	span.SetAttr("save", "Alice/1")
	span.Finish()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))

	assert.Equal(t, "trace", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "edit_save", rec["operation_name"])
	assert.Equal(t, "Alice/1", rec["save"])
	assert.Contains(t, rec, "time_ms")
}

func TestLoggingTracerBelowLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	tracing.NewLoggingTracer(logger).StartSpan("edit_save").Finish()

	assert.Empty(t, buf.String())
}
