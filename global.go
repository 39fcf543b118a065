package aegis

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"
)

var (
	globalMu sync.RWMutex
	global   *Aegis
)

// SetGlobal sets the global Aegis instance.
func SetGlobal(a *Aegis) {
	globalMu.Lock()
	global = a
	globalMu.Unlock()
}

// L returns the global Aegis instance.
func L() *Aegis {
	globalMu.RLock()
	g := global
	globalMu.RUnlock()
	if g == nil {
		panic("aegis: global not set, call SetGlobal first")
	}
	return g
}

func getGlobal() *Aegis {
	globalMu.RLock()
	g := global
	globalMu.RUnlock()
	if g == nil {
		return &Aegis{logger: newZapLogger(Default()), recorder: NewRecorder()}
	}
	return g
}

// Debug logs at debug level using the global logger.
func Debug(ctx context.Context, msg string, fields ...Field) {
	getGlobal().Debug(ctx, msg, fields...)
}

// Info logs at info level using the global logger.
func Info(ctx context.Context, msg string, fields ...Field) {
	getGlobal().Info(ctx, msg, fields...)
}

// Warn logs at warn level using the global logger.
func Warn(ctx context.Context, msg string, fields ...Field) {
	getGlobal().Warn(ctx, msg, fields...)
}

// Error logs at error level using the global logger.
func Error(ctx context.Context, msg string, err error, fields ...Field) {
	getGlobal().Error(ctx, msg, err, fields...)
}

// Critical logs at fatal level using the global logger without exiting.
func Critical(ctx context.Context, msg string, err error, fields ...Field) {
	getGlobal().Critical(ctx, msg, err, fields...)
}

// GetTracer returns a named tracer from the global instance.
func GetTracer(name string) trace.Tracer {
	return getGlobal().Tracer(name)
}

// GetRecorder returns the evaluation-signal recorder from the global instance.
func GetRecorder() *Recorder {
	return getGlobal().Recorder()
}

// Sync flushes the global logger.
func Sync() error {
	globalMu.RLock()
	g := global
	globalMu.RUnlock()
	if g == nil {
		return nil
	}
	return g.Sync()
}

// Named returns a child logger from the global instance.
func Named(name string) Logger {
	return getGlobal().Named(name)
}
