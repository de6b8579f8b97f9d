package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	log := New("restaurant-pos", &buf, slog.LevelDebug)

	log.Error("generate_bill", "req-1", "bill failed", errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "bill failed", entry["msg"])
	assert.Equal(t, "restaurant-pos", entry["service"])
	assert.Equal(t, "generate_bill", entry["action"])
	assert.Equal(t, "req-1", entry["request_id"])

	errGroup, ok := entry["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boom", errGroup["msg"])
	assert.NotEmpty(t, errGroup["stack"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("restaurant-pos", &buf, slog.LevelWarn)

	log.Info("create_order", "", "ignored")
	log.Debug("create_order", "", "ignored")
	assert.Zero(t, buf.Len())

	log.Warn("create_order", "", "kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
