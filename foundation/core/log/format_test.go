// File: format_test.go
// Title: Format Tests
// Description: Tests for the JSON, text and logfmt formatters.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19

package log

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, "json"},
		{FormatText, "text"},
		{FormatLogfmt, "logfmt"},
		{Format(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.format.String(); got != tt.want {
				t.Errorf("Format.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"text", FormatText, false},
		{"logfmt", FormatLogfmt, false},
		{"JSON", FormatJSON, false},
		{"  text  ", FormatText, false},
		{"console", FormatJSON, true},
		{"", FormatJSON, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func sampleEntry() *Entry {
	entry := NewEntry(LevelInfo, "document loaded")
	entry.Timestamp = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	entry.Logger = "registry"
	entry.Document = "prop1"
	entry.Operation = "load"
	entry.Fields["entries"] = 3
	entry.Fields["path"] = "/tmp/en.properties"
	return entry
}

func TestJSONFormatter_Format(t *testing.T) {
	data, err := NewJSONFormatter().Format(sampleEntry())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("JSON output should be newline terminated")
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["document"] != "prop1" || m["operation"] != "load" || m["entries"] != float64(3) {
		t.Errorf("unexpected JSON: %v", m)
	}
	if m["timestamp"] != "2026-10-19T12:00:00Z" {
		t.Errorf("timestamp = %v", m["timestamp"])
	}
}

func TestJSONFormatter_ErrorField(t *testing.T) {
	entry := NewEntry(LevelWarn, "reload failed")
	entry.Fields["cause"] = errors.New("no such file")

	data, err := NewJSONFormatter().Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["cause"] != "no such file" {
		t.Errorf("error field should be rendered as its message, got %v", m["cause"])
	}
}

func TestTextFormatter_Format(t *testing.T) {
	f := NewTextFormatter()
	f.DisableTimestamp = true

	data, err := f.Format(sampleEntry())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "[INF] {registry} (doc=prop1,op=load) document loaded [entries=3 path=/tmp/en.properties]\n"
	if string(data) != want {
		t.Errorf("Format() = %q, want %q", string(data), want)
	}
}

func TestLogfmtFormatter_Format(t *testing.T) {
	data, err := NewLogfmtFormatter().Format(sampleEntry())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	s := string(data)
	for _, want := range []string{
		"level=info",
		`message="document loaded"`,
		`document="prop1"`,
		"operation=load",
		"entries=3",
		`path="/tmp/en.properties"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("logfmt output missing %q: %s", want, s)
		}
	}
}

func TestGetFormatter(t *testing.T) {
	if _, ok := GetFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("GetFormatter(FormatText) should return *TextFormatter")
	}
	if _, ok := GetFormatter(FormatLogfmt).(*LogfmtFormatter); !ok {
		t.Error("GetFormatter(FormatLogfmt) should return *LogfmtFormatter")
	}
	if _, ok := GetFormatter(Format(42)).(*JSONFormatter); !ok {
		t.Error("unknown formats should fall back to JSON")
	}
}
