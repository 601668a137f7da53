package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), "log line: %s", buf.String())
	return out
}

func TestSlogHandler_WritesJSONFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(New(Config{Level: "debug", Output: &buf})))

	logger.Info("lead created", "lead_id", "abc", "count", 3, "ok", true, "error", errors.New("boom"))

	line := decodeLine(t, &buf)
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "lead created", line["message"])
	assert.Equal(t, "abc", line["lead_id"])
	assert.EqualValues(t, 3, line["count"])
	assert.Equal(t, true, line["ok"])
	assert.Equal(t, "boom", line["error"])
}

func TestSlogHandler_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(New(Config{Level: "warn", Output: &buf})))

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Equal(t, "warn", decodeLine(t, &buf)["level"])
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(New(Config{Output: &buf}))).
		With("component", "router").
		WithGroup("http")

	logger.Info("request", "status", 200)

	line := decodeLine(t, &buf)
	assert.Equal(t, "router", line["component"])
	assert.EqualValues(t, 200, line["http.status"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"debug":   "debug",
		"WARN":    "warn",
		"warning": "warn",
		"error":   "error",
		"":        "info",
		"bogus":   "info",
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in).String(), "input %q", in)
	}
}
