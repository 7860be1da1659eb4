// File: logger_test.go
// Title: Logger Tests
// Description: Tests for logger configuration, context handling and error
//              severity mapping.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Level:  level,
		Format: FormatJSON,
		Output: &buf,
		Name:   "test",
	})
	return logger, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNew(t *testing.T) {
	logger := New()

	if logger == nil {
		t.Fatal("New() should not return nil")
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Errorf("New() level = %v, want %v", logger.GetLevel(), DefaultLevel())
	}
	if logger.contextFields == nil {
		t.Error("New() should initialize context fields")
	}
}

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Level:  LevelError,
		Format: FormatText,
		Output: &buf,
		Name:   "test-logger",
	})

	if logger.GetLevel() != LevelError {
		t.Errorf("level = %v, want %v", logger.GetLevel(), LevelError)
	}
	if logger.name != "test-logger" {
		t.Errorf("name = %v, want test-logger", logger.name)
	}
	if logger.output != &buf {
		t.Error("NewWithConfig() should set custom output")
	}
}

func TestLoggerWithLevelIsImmutable(t *testing.T) {
	logger := New()
	newLogger := logger.WithLevel(LevelDebug)

	if newLogger == logger {
		t.Error("WithLevel() should return a new logger instance")
	}
	if newLogger.GetLevel() != LevelDebug {
		t.Errorf("WithLevel() level = %v, want %v", newLogger.GetLevel(), LevelDebug)
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Error("WithLevel() should not modify original logger")
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Audit("always")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %s", len(lines), buf.String())
	}
	if lines[0]["message"] != "shown" || lines[1]["level"] != "audit" {
		t.Errorf("unexpected lines: %v", lines)
	}
}

func TestDocumentContext(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	logger.WithDocument("prop2").
		WithOperation("reload").
		WithField("dir", "/etc/app").
		Info("document reloaded", Path("/etc/app/de.properties"))

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines", len(lines))
	}
	got := lines[0]
	want := map[string]interface{}{
		"document":  "prop2",
		"operation": "reload",
		"dir":       "/etc/app",
		"path":      "/etc/app/de.properties",
		"logger":    "test",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestLogErrorMapsSeverity(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"lookup failure", mdwerror.New("unknown name").WithCode(mdwerror.CodeUnknownName), "info"},
		{"malformed line", mdwerror.New("bad line").WithCode(mdwerror.CodeMalformedLine), "warn"},
		{"io failure", mdwerror.New("write failed").WithCode(mdwerror.CodeIOError), "error"},
		{"plain error", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace)
			logger.LogError(tt.err)

			lines := decodeLines(t, buf)
			if len(lines) != 1 {
				t.Fatalf("got %d lines", len(lines))
			}
			if lines[0]["level"] != tt.level {
				t.Errorf("level = %v, want %v", lines[0]["level"], tt.level)
			}
		})
	}
}

func TestLogErrorNil(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace)
	logger.LogError(nil)
	if buf.Len() != 0 {
		t.Errorf("LogError(nil) wrote %q", buf.String())
	}
}

func TestLogErrorIncludesDetails(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace)
	logger.LogError(mdwerror.New("malformed").
		WithCode(mdwerror.CodeMalformedLine).
		WithOperation("properties.Load").
		WithDetail("line", 4))

	line := decodeLines(t, buf)[0]
	if line["error_code"] != "MALFORMED_LINE" {
		t.Errorf("error_code = %v", line["error_code"])
	}
	if line["error_operation"] != "properties.Load" {
		t.Errorf("error_operation = %v", line["error_operation"])
	}
	if line["error_line"] != float64(4) {
		t.Errorf("error_line = %v", line["error_line"])
	}
	if _, ok := line["error_details"]; !ok {
		t.Error("structured error should be expanded into error_details")
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("dropped")
	if logger.IsLevelEnabled(LevelError) {
		t.Error("Discard() logger should not enable error level")
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	timer := logger.StartTimer("directory scan").WithField("files", 3)
	time.Sleep(time.Millisecond)
	elapsed := timer.Stop()

	if elapsed <= 0 {
		t.Error("Stop() should return a positive duration")
	}
	if timer.Stop() != 0 {
		t.Error("second Stop() should return zero")
	}

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["message"] != "directory scan completed" {
		t.Errorf("message = %v", lines[0]["message"])
	}
	if _, ok := lines[0]["duration_ms"]; !ok {
		t.Error("timer entry should carry duration_ms")
	}
}

func TestTimerStopWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)
	logger.StartTimer("snapshot").StopWithError(errors.New("disk full"))

	line := decodeLines(t, buf)[0]
	if line["level"] != "error" || line["error"] != "disk full" {
		t.Errorf("unexpected entry: %v", line)
	}
}
