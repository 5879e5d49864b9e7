package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" INFO ":  zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"trace":   zerolog.TraceLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), "level %q", in)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel)

	log.Info().Msg("dropped")
	log.Warn().Str("component", "retry").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "retry", entry["component"])
	assert.Contains(t, entry, "time")
}

func TestInitWithOptions_File(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	path := filepath.Join(t.TempDir(), "blockrun.log")

	log, closer, err := InitWithOptions(path, false, "debug")
	require.NoError(t, err)
	defer closer.Close() //nolint:errcheck
	assert.Equal(t, zerolog.ErrorLevel, log.GetLevel())

	log.Error().Msg("boom")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
}

func TestInitWithOptions_BadFile(t *testing.T) {
	_, closer, err := InitWithOptions(filepath.Join(t.TempDir(), "missing", "x.log"), false, "")
	assert.Error(t, err)
	assert.Nil(t, closer)
}

func TestInitWithOptions_CloseReleasesFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "blockrun.log")

	_, closer, err := InitWithOptions(path, false, "info")
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	assert.Error(t, closer.Close(), "file should already be closed")

	_, closer, err = InitWithOptions("", false, "info")
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}
