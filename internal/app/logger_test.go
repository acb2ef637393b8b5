package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Level(t *testing.T) {
	testCases := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "WARN", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
		{level: "", want: slog.LevelInfo},
		{level: "loud", want: slog.LevelInfo},
	}
	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			logger := newLogger(&Config{LogLevel: tc.level}, &bytes.Buffer{})
			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tc.want))
			assert.False(t, logger.Enabled(ctx, tc.want-1))
		})
	}
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&Config{LogLevel: "info", LogFormat: "json"}, &buf).Info("Compiled.", "plans", 2)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Compiled.", line["msg"])
	assert.EqualValues(t, 2, line["plans"])

	buf.Reset()
	newLogger(&Config{LogLevel: "info", LogFormat: "text"}, &buf).Info("Compiled.", "plans", 2)
	assert.Contains(t, buf.String(), `msg=Compiled. plans=2`)
}
