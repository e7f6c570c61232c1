package common

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestColorHandler_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	if h.useColor {
		t.Fatal("buffers are not terminals; colors must be off")
	}
	logger := slog.New(h).With("component", "executor")
	logger.Info("request sent", "status", 200, "ok", true)

	out := buf.String()
	if !strings.Contains(out, "[INFO ] [executor] request sent") {
		t.Fatalf("unexpected line: %q", out)
	}
	if !strings.Contains(out, "status=200") || !strings.Contains(out, "ok=true") {
		t.Fatalf("expected attributes, got %q", out)
	}
}

func TestColorHandler_Enabled(t *testing.T) {
	h := NewColorHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info must be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("error must be enabled at warn level")
	}
}

func TestColorHandler_Colorize(t *testing.T) {
	h := NewColorHandler(&bytes.Buffer{}, nil)
	h.SetColorEnabled(true)
	if got := h.colorize(Red, "x"); got != Red+"x"+Reset {
		t.Fatalf("unexpected colorized text %q", got)
	}
	h.SetColorEnabled(false)
	if got := h.colorize(Red, "x"); got != "x" {
		t.Fatalf("expected plain text, got %q", got)
	}
}

func TestColorHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewColorHandler(&buf, nil)).WithGroup("http")
	logger.Warn("slow", "ms", 1200)
	if !strings.Contains(buf.String(), "http.ms=1200") {
		t.Fatalf("expected grouped key, got %q", buf.String())
	}
}
