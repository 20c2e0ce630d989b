// File: internal/logger/logger_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"Warn":  slog.LevelWarn,
		"ERROR": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("TRACE")
	assert.Error(t, err)
}

func TestNewJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nanonet.log")

	log, closeFn, err := New("WARN", "json", path)
	require.NoError(t, err)
	log.Info("filtered")
	log.Warn("kept", "component", "test")
	require.NoError(t, closeFn())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "test", rec["component"])
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, _, err := New("INFO", "xml", "stderr")
	assert.Error(t, err)
}
