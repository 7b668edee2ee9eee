package zunderbolt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLoggerWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(LogConfig{Level: "debug", Format: LogFormatJSON}, &buf)

	l.WithPath("a.bin").LogFlush(context.Background(), "a.bin", 128, 64, nil)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "flush completed", rec["msg"])
	assert.Equal(t, "a.bin", rec["path"])
	assert.EqualValues(t, 128, rec["offset"])
	assert.EqualValues(t, 64, rec["bytes"])
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(LogConfig{Level: "info", Format: LogFormatText}, &buf)

	l.LogOpen(context.Background(), "a.bin", "Open", 10, nil)
	assert.Empty(t, buf.String())

	l.LogOpen(context.Background(), "a.bin", "Open", 0, errors.New("boom"))
	assert.Contains(t, buf.String(), "open failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestLoggerFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zb.log")
	l := NewLoggerFromConfig(LogConfig{
		Level:     "info",
		Format:    LogFormatText,
		Output:    LogOutputFile,
		FilePath:  path,
		MaxSizeMB: 1,
	})
	require.NotNil(t, l)
	l.Info("hello")
	assert.FileExists(t, path)
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
