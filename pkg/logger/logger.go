package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap with loosely-typed key/value pairs so call sites stay
// compact: log.Info("created transfer", "transfer_id", id).
type Logger struct {
	sugar *zap.SugaredLogger
	base  *zap.Logger
}

// New builds a logger for the given level and environment. Production gets
// JSON output, everything else a console encoder.
func New(level, environment string) *Logger {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Logging must never take the process down at startup; fall back to
		// a bare production logger.
		base = zap.NewNop()
	}

	return &Logger{sugar: base.Sugar(), base: base}
}

// NewNop returns a logger that discards everything. For tests.
func NewNop() *Logger {
	base := zap.NewNop()
	return &Logger{sugar: base.Sugar(), base: base}
}

// Zap exposes the underlying structured logger for packages that want
// typed fields.
func (l *Logger) Zap() *zap.Logger {
	return l.base
}

// With returns a child logger with the given key/value pairs attached.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...), base: l.base}
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, keysAndValues...)
	os.Exit(1)
}

// Sync flushes buffered log entries. Safe to call on shutdown.
func (l *Logger) Sync() {
	_ = l.base.Sync()
}
