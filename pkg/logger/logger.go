// Package logger wires zap into a logr.Logger for the whole application.
// The sink is a log file (never stdout/stderr: the interactive session owns
// the terminal); when no log file is configured every call is a no-op.
package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loggerContextKey is unexported to prevent collisions with other packages'
// context values.
type loggerContextKey struct{}

var (
	once sync.Once

	// globalZapLogger is kept for Zap-specific operations like Sync().
	globalZapLogger *zap.Logger

	// globalLogrLogger is what application code uses.
	globalLogrLogger *logr.Logger

	defaultNoopLogger = logr.Discard()
)

// Setup initializes the global logger writing JSON lines to the given file.
// It can only be called once; later calls have no effect. An empty path
// leaves the no-op logger in place. debug lowers the minimum level to
// Debug, which is where key-identification diagnostics go.
func Setup(path string, debug bool) error {
	var setupErr error
	once.Do(func() {
		if path == "" {
			return
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			setupErr = fmt.Errorf("open log file: %w", err)
			return
		}

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		level := zapcore.InfoLevel
		if debug {
			level = zapcore.DebugLevel
		}
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(f),
			zap.NewAtomicLevelAt(level),
		)

		globalZapLogger = zap.New(core, zap.AddStacktrace(zap.ErrorLevel))
		gl := zapr.NewLogger(globalZapLogger)
		globalLogrLogger = &gl
	})
	return setupErr
}

// Get returns the global logr.Logger, a no-op logger when Setup was never
// called or was called without a path.
func Get() *logr.Logger {
	if globalLogrLogger != nil {
		return globalLogrLogger
	}
	return &defaultNoopLogger
}

// WithLogger returns a new context carrying the given logger.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext retrieves the logger from ctx, falling back to the global
// logger and finally to a no-op logger.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	}
	return Get()
}

// Sync flushes buffered log entries. Call once before exit.
func Sync() {
	if globalZapLogger == nil {
		return
	}
	if err := globalZapLogger.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
	}
}

// isIgnorableSyncError returns true for the usual Sync errors on
// pipes/TTYs/closed descriptors.
func isIgnorableSyncError(err error) bool {
	return errors.Is(err, syscall.ENOTTY) ||
		errors.Is(err, syscall.EINVAL) ||
		errors.Is(err, syscall.EIO) ||
		errors.Is(err, syscall.EBADF)
}
