package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output io.Writer
}

// DefaultConfig returns default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: os.Stdout,
	}
}

// NewZapLogger creates a zap logger with the given configuration.
func NewZapLogger(cfg *Config) *zap.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	return zap.New(newCore(cfg.Format, cfg.Level, zapcore.AddSync(out)), zap.AddCaller())
}

// NewFileLogger creates a JSON logger appending to path.
// The returned close function flushes and closes the file.
func NewFileLogger(path, level string) (*zap.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	l := zap.New(newCore("json", level, zapcore.AddSync(f)))
	closeFn := func() error {
		_ = l.Sync()
		return f.Close()
	}
	return l, closeFn, nil
}

func newCore(format, level string, ws zapcore.WriteSyncer) zapcore.Core {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(format) {
	case "console", "text":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	return zapcore.NewCore(enc, ws, ParseLevel(level))
}

// ParseLevel parses a log level string. Unknown levels map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// FileLoggers hands out one file logger per path and keeps them open.
type FileLoggers struct {
	level    string
	fallback *zap.Logger

	mu      sync.Mutex
	loggers map[string]*zap.Logger
	closers []func() error
}

// NewFileLoggers creates a FileLoggers. fallback receives entries when a file cannot be opened.
func NewFileLoggers(level string, fallback *zap.Logger) *FileLoggers {
	if fallback == nil {
		fallback = zap.NewNop()
	}
	return &FileLoggers{
		level:    level,
		fallback: fallback,
		loggers:  make(map[string]*zap.Logger),
	}
}

// For returns the logger writing to path.
func (f *FileLoggers) For(path string) *zap.Logger {
	if path == "" {
		return zap.NewNop()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if l, ok := f.loggers[path]; ok {
		return l
	}

	l, closeFn, err := NewFileLogger(path, f.level)
	if err != nil {
		f.fallback.Warn("exchange log unavailable", zap.String("path", path), zap.Error(err))
		l = f.fallback
	} else {
		f.closers = append(f.closers, closeFn)
	}
	f.loggers[path] = l
	return l
}

// Close closes every opened log file.
func (f *FileLoggers) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var firstErr error
	for _, c := range f.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	f.loggers = make(map[string]*zap.Logger)
	return firstErr
}

// --- Context-aware logging ---

type contextKey struct{}

// ContextWithLogger returns a new context with the logger.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger from context, or fallback when none is set.
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(contextKey{}).(*zap.Logger); ok {
		return l
	}
	return fallback
}
