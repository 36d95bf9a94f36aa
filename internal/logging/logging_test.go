package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelWarn,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("loud")
	assert.ErrorContains(t, err, "unknown log level 'loud'")
}

func TestNewTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "info", Output: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("shown", "target", "README.md")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "target=README.md")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Debug("classified", "mode", "text")
	assert.Contains(t, buf.String(), `"msg":"classified"`)
	assert.Contains(t, buf.String(), `"mode":"text"`)
}

func TestNewUnknownFormat(t *testing.T) {
	_, _, err := New(Options{Format: "xml"})
	assert.ErrorContains(t, err, "unknown log format 'xml'")
}

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "docsync.log")
	logger, closeFn, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)

	logger.Info("written")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "msg=written"))
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
