package common

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LogLevel represents logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelDebug:
		return "debug"
	default:
		return "info"
	}
}

// ToSlogLevel converts LogLevel to slog.Level
func (l LogLevel) ToSlogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Logger is the structured logger shared by the node, the executor and the CLI.
// Output goes to stderr so command results on stdout stay machine readable.
type Logger struct {
	*slog.Logger
	level LogLevel
}

// maskingHandler masks attribute values before handing records to the inner handler.
type maskingHandler struct {
	inner  slog.Handler
	masker *Masker
}

func (h *maskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *maskingHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.masker.IsEnabled() {
		return h.inner.Handle(ctx, r)
	}
	out := slog.NewRecord(r.Time, r.Level, h.masker.MaskString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.masker.MaskAttr(a))
		return true
	})
	return h.inner.Handle(ctx, out)
}

func (h *maskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.masker.MaskAttr(a)
	}
	return &maskingHandler{inner: h.inner.WithAttrs(masked), masker: h.masker}
}

func (h *maskingHandler) WithGroup(name string) slog.Handler {
	return &maskingHandler{inner: h.inner.WithGroup(name), masker: h.masker}
}

func newLogger(h slog.Handler, level LogLevel) *Logger {
	return &Logger{
		Logger: slog.New(&maskingHandler{inner: h, masker: globalMasker}),
		level:  level,
	}
}

// NewLogger creates a text logger writing to stderr.
func NewLogger(level LogLevel) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a text logger writing to w.
func NewLoggerTo(w io.Writer, level LogLevel) *Logger {
	return newLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.ToSlogLevel()}), level)
}

// NewJSONLogger creates a JSON logger writing to stderr.
func NewJSONLogger(level LogLevel) *Logger {
	return newLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level.ToSlogLevel()}), level)
}

// NewColorLogger creates a colorized logger writing to stderr.
func NewColorLogger(level LogLevel) *Logger {
	return newLogger(NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: level.ToSlogLevel()}), level)
}

// Level returns the current log level
func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) with(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), level: l.level}
}

// WithComponent returns a logger with component context
func (l *Logger) WithComponent(component string) *Logger { return l.with("component", component) }

// WithRun returns a logger tagged with a node run id
func (l *Logger) WithRun(runID string) *Logger { return l.with("run_id", runID) }

// WithItem returns a logger tagged with the input item index
func (l *Logger) WithItem(index int) *Logger { return l.with("item", index) }

// WithSelection returns a logger tagged with resource and operation
func (l *Logger) WithSelection(resource, operation string) *Logger {
	return l.with("resource", resource, "operation", operation)
}

// WithRequest returns a logger with HTTP request context
func (l *Logger) WithRequest(method, url string) *Logger { return l.with("method", method, "url", url) }

// WithStore returns a logger with store context
func (l *Logger) WithStore(storeType string) *Logger { return l.with("store", storeType) }

var defaultLogger = NewLogger(LogLevelInfo)

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger *Logger) {
	defaultLogger = logger
}

// GetLogger returns the default logger
func GetLogger() *Logger {
	return defaultLogger
}

// LogError logs an error with context
func LogError(msg string, err error, attrs ...any) {
	args := append([]any{"error", err}, attrs...)
	defaultLogger.Error(msg, args...)
}

// LogInfo logs informational message
func LogInfo(msg string, attrs ...any) {
	defaultLogger.Info(msg, attrs...)
}

// LogDebug logs debug message
func LogDebug(msg string, attrs ...any) {
	defaultLogger.Debug(msg, attrs...)
}

// LogWarn logs warning message
func LogWarn(msg string, attrs ...any) {
	defaultLogger.Warn(msg, attrs...)
}
