package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ValidLevels lists the accepted log level names.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// ValidFormats lists the accepted encoder names.
var ValidFormats = []string{"console", "json"}

// Logger interface for structured logging
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
	Error(ctx context.Context, err error, msg string, fields ...interface{})

	With(fields ...interface{}) Logger
	WithComponent(component string) Logger
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level  string
	Format string // "console" or "json"
	Output io.Writer
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	}
}

// ZapLogger implements Logger on top of a zap.SugaredLogger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// IsValidLevel checks if the given level string is accepted. Comparison is
// case-insensitive.
func IsValidLevel(level string) bool {
	level = strings.ToLower(level)
	for _, valid := range ValidLevels {
		if level == valid {
			return true
		}
	}
	return false
}

// NewLogger builds a logger from config. Console output uses zap's
// development encoder; json uses the production encoder.
func NewLogger(config *LoggerConfig) (*ZapLogger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(config.Level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}

	var encCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	switch strings.ToLower(config.Format) {
	case "json":
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "console", "":
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", config.Format)
	}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), zap.NewAtomicLevelAt(level))
	return &ZapLogger{sugar: zap.New(core).Sugar()}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *ZapLogger {
	return &ZapLogger{sugar: zap.NewNop().Sugar()}
}

// Debug logs a debug message
func (l *ZapLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, fields...)
}

// Info logs an info message
func (l *ZapLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.sugar.Infow(msg, fields...)
}

// Warn logs a warning message
func (l *ZapLogger) Warn(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, withError(err, fields)...)
}

// Error logs an error message
func (l *ZapLogger) Error(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.sugar.Errorw(msg, withError(err, fields)...)
}

// With creates a new logger with additional fields
func (l *ZapLogger) With(fields ...interface{}) Logger {
	return &ZapLogger{sugar: l.sugar.With(fields...)}
}

// WithComponent creates a new logger with component context
func (l *ZapLogger) WithComponent(component string) Logger {
	return &ZapLogger{sugar: l.sugar.With("component", component)}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

func withError(err error, fields []interface{}) []interface{} {
	if err == nil {
		return fields
	}
	return append([]interface{}{"error", err.Error()}, fields...)
}
