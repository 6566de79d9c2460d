package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo)

	l.Debug("hidden")
	l.Info("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("info record missing: %q", out)
	}
	// A bytes.Buffer is never a terminal, so no escape codes.
	if strings.Contains(out, "\x1b[") {
		t.Errorf("unexpected color codes in non-terminal output: %q", out)
	}
}

func TestPutGet(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug)

	ctx := Put(context.Background(), l)
	if Get(ctx) != l {
		t.Error("Get did not return the logger stored with Put")
	}

	// Missing logger falls back to a discarding one.
	if Get(context.Background()) == nil {
		t.Error("Get returned nil for empty context")
	}
	Get(context.Background()).Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("fallback logger wrote to unrelated buffer: %q", buf.String())
	}
}
