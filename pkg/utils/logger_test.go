package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefaultLogger(LevelInfo, &buf)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	log.Warn("warned")
	log.Error("failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "[ERROR]")
}

func TestDefaultLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefaultLogger(LevelError, &buf)

	log.Info("before")
	log.SetLevel(LevelDebug)
	log.Debug("after")

	out := buf.String()
	assert.NotContains(t, out, "before")
	assert.Contains(t, out, "after")
}

func TestDefaultLogger_WithField(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefaultLogger(LevelInfo, &buf)

	log.WithField("trace", "app.pat").Info("parsing")

	assert.Contains(t, buf.String(), "trace=app.pat")

	// The parent logger is not mutated.
	buf.Reset()
	log.Info("plain")
	assert.NotContains(t, buf.String(), "trace=")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLogLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LevelInfo, ParseLogLevel("bogus"))
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestNullLogger(t *testing.T) {
	log := &NullLogger{}
	log.Info("discarded")
	assert.Same(t, log, log.WithField("k", "v"))
}
