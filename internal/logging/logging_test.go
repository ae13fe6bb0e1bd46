package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"debug lowercase", "debug", slog.LevelDebug},
		{"debug uppercase", "DEBUG", slog.LevelDebug},
		{"info lowercase", "info", slog.LevelInfo},
		{"warn lowercase", "warn", slog.LevelWarn},
		{"error lowercase", "error", slog.LevelError},
		{"error uppercase", "ERROR", slog.LevelError},
		{"empty string", "", slog.LevelInfo},
		{"invalid value", "invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetupWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "roam.log")

	cleanup, err := Setup(path, nil, slog.LevelInfo)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	slog.Info("itinerary generated", "days", 3)
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"itinerary generated"`) {
		t.Errorf("log file missing record, got: %s", data)
	}
}

func TestSetupExtraWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roam.log")
	var buf strings.Builder

	cleanup, err := Setup(path, &buf, slog.LevelInfo)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	slog.Info("chat turn complete")
	cleanup()

	if !strings.Contains(buf.String(), "chat turn complete") {
		t.Errorf("extra writer missing record, got: %s", buf.String())
	}
}
