package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"Warn":    LevelWarn,
		"ERROR":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestZeroLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLoggerTo(&buf, LevelWarn)
	ctx := context.Background()

	l.Debug(ctx, "debug message")
	l.Info(ctx, "info message")
	assert.Empty(t, buf.String())

	l.Warn(ctx, "warn message", map[string]interface{}{"symbol": "AAPL"})
	require.NotEmpty(t, buf.String())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "warn message", entry["message"])
	assert.Equal(t, "AAPL", entry["symbol"])
}

func TestZeroLogger_ErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLoggerTo(&buf, LevelDebug).With(map[string]interface{}{"session": "abc"})

	l.Error(context.Background(), errors.New("disk full"), "append failed")

	line := strings.TrimSpace(buf.String())
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "abc", entry["session"])
}
