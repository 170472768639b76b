package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"text", FormatText},
		{"TEXT", FormatText},
		{"human", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"auto", FormatAuto},
		{"", FormatAuto},
		{"nonsense", FormatAuto},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.expected {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewHandlerJSON(t *testing.T) {
	var buf bytes.Buffer

	// A buffer is not a TTY, so auto should fall through to JSON
	logger := slog.New(NewHandler(&buf, FormatAuto, slog.LevelInfo))
	logger.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}

	if entry["msg"] != "hello" {
		t.Errorf("Expected msg hello, got %v", entry["msg"])
	}

	if entry["key"] != "value" {
		t.Errorf("Expected key value, got %v", entry["key"])
	}
}

func TestNewHandlerLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewHandler(&buf, FormatJSON, slog.LevelWarn))

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("Expected info below warn level to be dropped, got %q", buf.String())
	}

	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Error("Expected warn log to be written")
	}
}
