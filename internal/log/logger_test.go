package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := &Logger{
		level:  LevelInfo,
		writer: &buf,
	}

	tests := []struct {
		name      string
		shouldLog bool
		logFunc   func()
	}{
		{"Debug not logged at Info level", false, func() {
			logger.log(LevelDebug, "debug message")
		}},
		{"Info logged at Info level", true, func() {
			logger.log(LevelInfo, "info message")
		}},
		{"Warn logged at Info level", true, func() {
			logger.log(LevelWarn, "warn message")
		}},
		{"Error logged at Info level", true, func() {
			logger.log(LevelError, "error message")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc()
			hasOutput := buf.Len() > 0
			if hasOutput != tt.shouldLog {
				t.Errorf("Expected hasOutput=%v, got %v", tt.shouldLog, hasOutput)
			}
		})
	}
}

func TestKeyValueFormatting(t *testing.T) {
	var buf bytes.Buffer

	logger := &Logger{
		level:  LevelInfo,
		writer: &buf,
	}

	logger.log(LevelInfo, "server started", "port", 8080, "host", "0.0.0.0")

	out := buf.String()
	if !strings.Contains(out, "server started") {
		t.Errorf("Expected message in output, got: %s", out)
	}
	if !strings.Contains(out, "port=8080") {
		t.Errorf("Expected port=8080 in output, got: %s", out)
	}
	if !strings.Contains(out, "host=0.0.0.0") {
		t.Errorf("Expected host=0.0.0.0 in output, got: %s", out)
	}
}

func TestOddTrailingArgument(t *testing.T) {
	var buf bytes.Buffer

	logger := &Logger{
		level:  LevelInfo,
		writer: &buf,
	}

	logger.log(LevelInfo, "message", "dangling")

	if !strings.Contains(buf.String(), "dangling") {
		t.Errorf("Expected dangling argument in output, got: %s", buf.String())
	}
}

func TestLevelPrefix(t *testing.T) {
	var buf bytes.Buffer

	logger := &Logger{
		level:  LevelDebug,
		writer: &buf,
	}

	tests := []struct {
		level  Level
		prefix string
	}{
		{LevelDebug, "[DEBUG]"},
		{LevelInfo, "[INFO]"},
		{LevelWarn, "[WARN]"},
		{LevelError, "[ERROR]"},
	}

	for _, tt := range tests {
		buf.Reset()
		logger.log(tt.level, "msg")
		if !strings.Contains(buf.String(), tt.prefix) {
			t.Errorf("Expected prefix %s, got: %s", tt.prefix, buf.String())
		}
	}
}
