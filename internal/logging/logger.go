// Package logging provides the server's structured logger: named level
// methods (Info/Debug/Error) over a shared sink, backed by zap.
//
// Grounded on original_source/src/logging/FileLogger.{h,cpp} (a
// three-sink logger interface with timestamped lines).
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin named-level wrapper around a *zap.SugaredLogger.
type Logger struct {
	s *zap.SugaredLogger
}

// New builds a Logger writing ISO8601-timestamped, level-tagged lines to
// stderr. debug enables zap's debug level; production deployments should
// leave it off.
func New(debug bool) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.TimeKey = "ts"

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(os.Stderr)),
		level,
	)
	return &Logger{s: zap.New(core).Sugar()}
}

// Info logs a normal operational event: accepted connection, closed
// connection, server startup.
func (l *Logger) Info(msg string, kv ...interface{}) { l.s.Infow(msg, kv...) }

// Debug logs a per-request trace line, off by default.
func (l *Logger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }

// Error logs a connection-ending or unexpected failure.
func (l *Logger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }

// Sync flushes any buffered log entries; call before process exit.
func (l *Logger) Sync() { _ = l.s.Sync() }
