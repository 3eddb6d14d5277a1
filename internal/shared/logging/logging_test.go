package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewRoutesErrorsToJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := New(slog.LevelInfo, &out, &errOut)

	logger.Debug("hidden")
	logger.Info("feed fetched", "url", "https://example.com/rss")
	logger.Error("feed failed", "url", "https://example.com/bad")

	if strings.Contains(out.String(), "hidden") {
		t.Fatal("debug record should be filtered at info level")
	}
	if !strings.Contains(out.String(), "feed fetched") || !strings.Contains(out.String(), "feed failed") {
		t.Fatalf("text output missing records: %s", out.String())
	}
	if strings.Contains(errOut.String(), "feed fetched") {
		t.Fatal("info record leaked into the error stream")
	}
	if !strings.Contains(errOut.String(), `"msg":"feed failed"`) {
		t.Fatalf("error stream missing JSON record: %s", errOut.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
