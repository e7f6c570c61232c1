package common

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_ToSlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
		name     string
	}{
		{LogLevelError, slog.LevelError, "error"},
		{LogLevelWarn, slog.LevelWarn, "warn"},
		{LogLevelInfo, slog.LevelInfo, "info"},
		{LogLevelDebug, slog.LevelDebug, "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.ToSlogLevel(); got != tt.expected {
				t.Fatalf("ToSlogLevel() = %v, want %v", got, tt.expected)
			}
			if tt.level.String() != tt.name {
				t.Fatalf("String() = %q, want %q", tt.level.String(), tt.name)
			}
		})
	}
}

func TestNewLoggers(t *testing.T) {
	for _, l := range []*Logger{NewLogger(LogLevelInfo), NewJSONLogger(LogLevelWarn), NewColorLogger(LogLevelDebug)} {
		if l == nil || l.Logger == nil {
			t.Fatal("expected logger, got nil")
		}
	}
	if NewJSONLogger(LogLevelWarn).Level() != LogLevelWarn {
		t.Fatal("expected level to be kept")
	}
}

func TestLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, LogLevelDebug)
	l.WithComponent("executor").WithRun("r-1").WithItem(3).WithSelection("address", "getById").
		WithRequest("GET", "http://h/api/v2/adressen/1").Info("sent")
	out := buf.String()
	for _, want := range []string{"component=executor", "run_id=r-1", "item=3", "resource=address", "operation=getById", "method=GET"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestLogger_MasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, LogLevelDebug)
	l.Info("auth header Basic dXNlcjpwYXNz attached", "password", "s3cret", "body", `{"password":"hunter2"}`)
	out := buf.String()
	for _, leaked := range []string{"dXNlcjpwYXNz", "s3cret", "hunter2"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("secret %q leaked: %s", leaked, out)
		}
	}

	EnableMasking(false)
	defer EnableMasking(true)
	buf.Reset()
	l.Info("plain", "password", "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected unmasked output when masking disabled: %s", buf.String())
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := GetLogger()
	defer SetDefaultLogger(prev)

	var buf bytes.Buffer
	SetDefaultLogger(NewLoggerTo(&buf, LogLevelDebug))
	LogInfo("test info message", "key", "value")
	LogDebug("test debug message")
	LogWarn("test warn message")
	LogError("test error message", nil)

	out := buf.String()
	for _, want := range []string{"test info message", "test debug message", "test warn message", "test error message"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}
