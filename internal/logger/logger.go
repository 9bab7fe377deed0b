// Package logger wraps zap behind a small interface so services, handlers and
// the diagram controller can log without depending on zap directly.
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

type Field = zapcore.Field

type LoggerI interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Panic(msg string, fields ...Field)
	With(fields ...Field) LoggerI
	Sync() error
}

type zapLogger struct {
	zap *zap.Logger
}

// NewLogger builds a JSON logger named after the service. Unknown levels fall back to info.
func NewLogger(name, level string) LoggerI {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = level != LevelDebug

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewExample()
	}
	return &zapLogger{zap: l.Named(name)}
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() LoggerI {
	return &zapLogger{zap: zap.NewNop()}
}

// Cleanup flushes buffered entries; call it with defer right after NewLogger.
func Cleanup(l LoggerI) {
	_ = l.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.zap.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.zap.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.zap.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.zap.Error(msg, fields...) }
func (l *zapLogger) Panic(msg string, fields ...Field) { l.zap.Panic(msg, fields...) }
func (l *zapLogger) Sync() error                       { return l.zap.Sync() }

func (l *zapLogger) With(fields ...Field) LoggerI {
	return &zapLogger{zap: l.zap.With(fields...)}
}

func String(key, val string) Field      { return zap.String(key, val) }
func Int(key string, val int) Field     { return zap.Int(key, val) }
func Int64(key string, val int64) Field { return zap.Int64(key, val) }
func Any(key string, val any) Field     { return zap.Any(key, val) }
func Error(err error) Field             { return zap.Error(err) }
func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}
