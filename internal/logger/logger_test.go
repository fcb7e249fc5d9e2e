package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"off", LevelNone},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestTextLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false).WithLevel(LevelWarn)

	log.Debug("hidden %d", 1)
	log.Info("hidden %d", 2)
	log.Warn("shown %d", 3)
	log.Error("shown %d", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "WARN] shown 3")
	assert.Contains(t, lines[1], "ERROR] shown 4")
}

func TestTextLogger_None(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)
	log.SetLevel("none")

	log.Error("nothing")
	assert.Empty(t, buf.String())
	assert.Equal(t, LevelNone, log.Level())
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(&buf)
	log.SetLevel("debug")

	log.Debug("walking %q", "src")
	log.Warn("skipping %s", "x")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, `walking "src"`, rec["msg"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "WARN", rec["level"])

	buf.Reset()
	log.WithLevel(LevelError)
	log.Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestNewWithFormat(t *testing.T) {
	var buf bytes.Buffer

	log, err := NewWithFormat(&buf, "JSON", false)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, log.Format())

	log, err = NewWithFormat(&buf, "", true)
	require.NoError(t, err)
	assert.Equal(t, FormatText, log.Format())

	_, err = NewWithFormat(&buf, "xml", false)
	assert.Error(t, err)
}
