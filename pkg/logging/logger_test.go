package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

func TestDefaultLogger_LevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := NewDefaultLogger(LevelWarn, &buf)

	l.Debug("hidden")
	l.Info("also hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below the configured level, got %q", buf.String())
	}

	l.Warn("visible %d", 1)
	if !strings.Contains(buf.String(), "[WARN]") || !strings.Contains(buf.String(), "visible 1") {
		t.Fatalf("unexpected log line: %q", buf.String())
	}
}

func TestDefaultLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewDefaultLogger(LevelInfo, &buf)
	child := base.WithField("group", "G3").WithFields(map[string]interface{}{"rank": 2})

	child.Info("state learned")
	line := buf.String()
	assert.Contains(t, line, "group=G3")
	assert.Contains(t, line, "rank=2")

	// The parent logger must remain unaffected by the child's fields.
	buf.Reset()
	base.Info("no fields here")
	assert.NotContains(t, buf.String(), "group=")
}

func TestNullLogger_Discards(t *testing.T) {
	var n NullLogger
	n.Info("should not panic")
	n.WithField("x", 1).Error("still nothing")
}

func TestGlobalLogger(t *testing.T) {
	orig := Global()
	defer SetGlobal(orig)

	var buf bytes.Buffer
	SetGlobal(NewDefaultLogger(LevelDebug, &buf))
	Global().Debug("hi")
	assert.Contains(t, buf.String(), "hi")
}
