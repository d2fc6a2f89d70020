package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap so callers get both structured and printf-style logging
// without importing zap themselves.
type Logger struct {
	base    *zap.Logger
	sugared *zap.SugaredLogger
}

// New builds a logger at the given level. When jsonOut is false a
// human-friendly console encoder is used.
func New(level string, jsonOut bool) *Logger {
	var cfg zap.Config
	if jsonOut {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.DisableStacktrace = true

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}
	return &Logger{base: base, sugared: base.Sugar()}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	base := zap.NewNop()
	return &Logger{base: base, sugared: base.Sugar()}
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.base.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.base.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.base.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.base.Error(msg, fields...) }

func (l *Logger) Debugf(format string, args ...any) { l.sugared.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.sugared.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.sugared.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.sugared.Errorf(format, args...) }

func (l *Logger) Sync() error { return l.base.Sync() }

// Field constructors re-exported so other packages can log structured
// fields without a direct zap import.
func String(key, val string) zap.Field { return zap.String(key, val) }
func Int(key string, val int) zap.Field { return zap.Int(key, val) }
func Int64(key string, val int64) zap.Field { return zap.Int64(key, val) }
func Bool(key string, val bool) zap.Field { return zap.Bool(key, val) }
func Err(err error) zap.Field { return zap.Error(err) }
