package logging

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

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("trace")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestNewWithoutFileDiscards(t *testing.T) {
	l, err := New(Config{Level: "debug"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
	assert.NoError(t, l.Close())
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "modal.log")
	l, err := New(Config{Level: "warn", File: path})
	require.NoError(t, err)

	lg := Component(l.Logger, "session")
	lg.Info().Msg("dropped")
	lg.Warn().Str("path", "a.txt").Msg("kept")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "a.txt", entry["path"])
	assert.Equal(t, "kept", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewWriterLeavesGlobalsAlone(t *testing.T) {
	before := zerolog.TimeFieldFormat
	t.Cleanup(func() { zerolog.TimeFieldFormat = before })
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var buf bytes.Buffer
	lg := NewWriter(&buf, zerolog.InfoLevel)
	lg.Info().Msg("x")

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.IsType(t, float64(0), entry["time"])
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.ErrorIs(t, err, ErrUnknownLevel)
}
