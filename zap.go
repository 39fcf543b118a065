package aegis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/coherencelabs/aegis/internal/otelsetup"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger implements Logger using Uber's Zap.
type zapLogger struct {
	zap          *zap.Logger
	config       Config
	atomicLvl    zap.AtomicLevel
	otelProvider *otelsetup.LogProvider
}

// prepareFields consolidates context extraction and field conversion.
// It returns a slice of zap fields ready for logging.
func (l *zapLogger) prepareFields(ctx context.Context, fields []Field) []zap.Field {
	zapFields := toZapFields(fields)

	// Short-circuit: context.Background() and context.TODO() never have trace info
	if ctx != nil && ctx != context.Background() && ctx != context.TODO() {
		// Extract readable trace_id/span_id strings for console/file
		contextFields := extractContextZapFields(ctx)
		// Add ctx for otelzap bridge to extract LogRecord.TraceID/SpanID
		contextFields = append(contextFields, zap.Reflect(SentinelKey, ctx))
		zapFields = append(zapFields, contextFields...)
	}

	return zapFields
}

// Debug logs a message at debug level.
func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	if !l.atomicLvl.Enabled(zapcore.DebugLevel) {
		return
	}
	// Stack depth: User -> (*Aegis).Debug -> (*zapLogger).Debug
	// Zap skips: 2 (configured in the factory)
	l.zap.Debug(msg, l.prepareFields(ctx, fields)...)
}

// Info logs a message at info level.
func (l *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	if !l.atomicLvl.Enabled(zapcore.InfoLevel) {
		return
	}
	l.zap.Info(msg, l.prepareFields(ctx, fields)...)
}

// Warn logs a message at warn level.
func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	if !l.atomicLvl.Enabled(zapcore.WarnLevel) {
		return
	}
	l.zap.Warn(msg, l.prepareFields(ctx, fields)...)
}

// Error logs a message at error level with an optional error.
func (l *zapLogger) Error(ctx context.Context, msg string, err error, fields ...Field) {
	if !l.atomicLvl.Enabled(zapcore.ErrorLevel) {
		return
	}

	zapFields := l.prepareFields(ctx, fields)
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}

	l.zap.Error(msg, zapFields...)
}

// Critical logs a message at fatal level but does NOT exit the process.
func (l *zapLogger) Critical(ctx context.Context, msg string, err error, fields ...Field) {
	// Critical maps to Fatal level, but the factory installs a
	// WithFatalHook(noExitHook) so this logs "FATAL" and then RETURNS.
	zapFields := l.prepareFields(ctx, fields)
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}

	l.zap.Fatal(msg, zapFields...)
}

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{
		zap:          l.zap.With(toZapFields(fields)...),
		config:       l.config,
		atomicLvl:    l.atomicLvl,
		otelProvider: l.otelProvider,
	}
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{
		zap:          l.zap.Named(name),
		config:       l.config,
		atomicLvl:    l.atomicLvl,
		otelProvider: l.otelProvider,
	}
}

func (l *zapLogger) Sync() error {
	return l.zap.Sync()
}

func (l *zapLogger) Shutdown(ctx context.Context) error {
	var errs []error

	// Shutdown OTEL first (stop producing logs to backend)
	if l.otelProvider != nil {
		if err := l.otelProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("otel: %w", err))
		}
	}

	// Sync Zap (flush buffers)
	if err := l.zap.Sync(); err != nil {
		errs = append(errs, fmt.Errorf("zap sync: %w", err))
	}

	return errors.Join(errs...)
}

func (l *zapLogger) SetLevel(level string) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err == nil {
		l.atomicLvl.SetLevel(lvl)
	}
}

func (l *zapLogger) GetLevel() string {
	return l.atomicLvl.Level().String()
}

// --- Field conversion ---

func convertField(f Field) zap.Field {
	switch f.Type {
	case StringType:
		return zap.String(f.Key, f.StringVal)
	case Int64Type:
		return zap.Int64(f.Key, f.Integer)
	case Uint64Type:
		return zap.Uint64(f.Key, f.Interface.(uint64))
	case Float64Type:
		return zap.Float64(f.Key, f.Float)
	case BoolType:
		return zap.Bool(f.Key, f.Integer == 1)
	case ErrorType:
		if err, ok := f.Interface.(error); ok {
			return zap.Error(err)
		}
		return zap.Any(f.Key, f.Interface)
	default:
		return zap.Any(f.Key, f.Interface)
	}
}

func toZapFields(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	zapFields := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zapFields = append(zapFields, convertField(f))
	}
	return zapFields
}

// --- Factory ---

// newZapLogger builds a logger from cfg without the OTEL log sink.
// Console and file sink construction cannot fail.
func newZapLogger(cfg Config) Logger {
	l, _ := buildZapLogger(cfg, false)
	return l
}

// newZapLoggerWithOTEL builds the full logger including the OTEL log sink.
func newZapLoggerWithOTEL(cfg Config) (Logger, error) {
	return buildZapLogger(cfg, true)
}

func buildZapLogger(cfg Config, withOTEL bool) (*zapLogger, error) {
	var otelProvider *otelsetup.LogProvider
	var otelCore zapcore.Core
	var err error

	// Determine global level
	globalLevel := parseLevel(cfg.Level)

	// Determine sink-specific levels (defaulting to global)
	consoleLevel := globalLevel
	if cfg.Console.Level != "" {
		consoleLevel = parseLevel(cfg.Console.Level)
	}

	fileLevel := globalLevel
	if cfg.File.Level != "" {
		fileLevel = parseLevel(cfg.File.Level)
	}

	otelLevel := globalLevel
	if cfg.OTEL.Level != "" {
		otelLevel = parseLevel(cfg.OTEL.Level)
	}

	// Calculate the minimum level across all ENABLED sinks.
	// The main atomicLevel (used for SetLevel and early filtering) must
	// allow logs to pass if ANY sink needs them.
	minLevel := globalLevel

	// zapcore.DebugLevel (-1) < zapcore.InfoLevel (0)
	if cfg.Console.Enabled && consoleLevel < minLevel {
		minLevel = consoleLevel
	}
	if cfg.File.Enabled && fileLevel < minLevel {
		minLevel = fileLevel
	}
	if cfg.OTEL.Enabled && otelLevel < minLevel {
		minLevel = otelLevel
	}

	// The atomicLevel acts as the master gatekeeper in the log methods above
	atomicLevel := zap.NewAtomicLevelAt(minLevel)

	// 1. Setup OTEL if enabled
	if withOTEL && cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		otelProvider, err = otelsetup.SetupLogProvider(logConfig(cfg), cfg.ServiceName, cfg.Version)
		if err != nil {
			return nil, fmt.Errorf("otel setup failed: %w", err)
		}

		if otelProvider != nil && otelProvider.LoggerProvider() != nil {
			otelCore = otelzap.NewCore(
				cfg.ServiceName,
				otelzap.WithLoggerProvider(otelProvider.LoggerProvider()),
			)
		}
	}

	// 2. Build cores
	cores := make([]zapcore.Core, 0, 4)

	// Console
	if cfg.Console.Enabled {
		consoleCores := buildConsoleCores(cfg, consoleLevel)
		for _, c := range consoleCores {
			cores = append(cores, newFilteringCore(c, SentinelKey))
		}
	}

	// File
	if cfg.File.Enabled && cfg.File.Path != "" {
		fileCore := buildFileCore(cfg, fileLevel)
		if fileCore != nil {
			cores = append(cores, newFilteringCore(fileCore, SentinelKey))
		}
	}

	// OTEL
	if otelCore != nil {
		otelCore = &levelEnforcer{Core: otelCore, level: otelLevel}

		// Filter SentinelKey (internal context carrier) but let trace_id/span_id
		// pass through as explicit attributes, so they stay visible in the log
		// body for backends that index attributes.
		cores = append(cores, newFilteringCore(otelCore, SentinelKey))
	}

	// 3. Combine
	var core zapcore.Core
	switch len(cores) {
	case 0:
		core = zapcore.NewNopCore()
	case 1:
		core = cores[0]
	default:
		core = zapcore.NewTee(cores...)
	}

	// 4. Build options
	opts := buildZapOptions(cfg)

	// Fatal hook so Critical() logs at Fatal level without killing the process
	opts = append(opts, zap.WithFatalHook(noExitHook{}))

	logger := zap.New(core, opts...)

	return &zapLogger{
		zap:          logger,
		config:       cfg,
		atomicLvl:    atomicLevel,
		otelProvider: otelProvider,
	}, nil
}

// logConfig maps the public OTEL log settings to the internal setup config.
func logConfig(cfg Config) otelsetup.LogConfig {
	return otelsetup.LogConfig{
		Enabled:        cfg.OTEL.Enabled,
		Endpoint:       cfg.OTEL.Endpoint,
		Protocol:       cfg.OTEL.Protocol,
		Insecure:       cfg.OTEL.Insecure,
		Username:       cfg.OTEL.Username,
		Password:       cfg.OTEL.Password,
		Timeout:        cfg.OTEL.Timeout,
		Headers:        cfg.OTEL.Headers,
		Attributes:     cfg.OTEL.Attributes,
		BatchSize:      cfg.OTEL.BatchSize,
		ExportInterval: cfg.OTEL.ExportInterval,
	}
}

type noExitHook struct{}

func (noExitHook) OnWrite(ce *zapcore.CheckedEntry, fields []zapcore.Field) {
	// Do nothing, preventing os.Exit
}

func buildZapOptions(cfg Config) []zap.Option {
	opts := []zap.Option{
		zap.AddCallerSkip(1), // Skip the wrapper methods
	}

	if cfg.Development {
		opts = append(opts, zap.Development())
		opts = append(opts, zap.AddCaller())
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	if cfg.ServiceName != "" {
		opts = append(opts, zap.Fields(zap.String("service", cfg.ServiceName)))
	}
	if cfg.Version != "" {
		opts = append(opts, zap.Fields(zap.String("version", cfg.Version)))
	}

	return opts
}

func buildConsoleCores(cfg Config, level zapcore.LevelEnabler) []zapcore.Core {
	encoder := buildConsoleEncoder(cfg)

	if cfg.Console.ErrorsToStderr {
		// stdout: [configLevel, Warn)
		stdoutLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return level.Enabled(lvl) && lvl < zapcore.WarnLevel
		})

		// stderr: [Warn, Fatal] AND >= configLevel
		// e.g., if config=Error, stderr only shows Error+ (Warn is suppressed).
		stderrLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return level.Enabled(lvl) && lvl >= zapcore.WarnLevel
		})

		return []zapcore.Core{
			zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), stdoutLevel),
			zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), stderrLevel),
		}
	}

	return []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}
}

func buildConsoleEncoder(cfg Config) zapcore.Encoder {
	switch cfg.Console.Format {
	case "systemd":
		return buildSystemdEncoder()
	case "pretty":
		return buildPrettyEncoder(cfg)
	case "json":
		return buildJSONEncoder()
	default:
		// Smart defaults based on environment
		if cfg.Development {
			return buildPrettyEncoder(cfg)
		}
		return buildJSONEncoder()
	}
}

// syslogPriority maps Zap levels to syslog priority prefixes (RFC 5424).
func syslogPriority(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return "<7>" // Debug
	case zapcore.InfoLevel:
		return "<6>" // Info
	case zapcore.WarnLevel:
		return "<4>" // Warning
	case zapcore.ErrorLevel:
		return "<3>" // Error
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return "<2>" // Critical
	default:
		return "<6>" // Default to Info
	}
}

// buildSystemdEncoder creates a console encoder optimized for systemd/journald.
// Output format: <N>LEVEL   Message   key=value key2=value2
// - Priority prefix (<6>, <3>, etc.) is parsed and stripped by journald
// - No timestamp (journald provides it)
// - No caller (keeps output clean)
func buildSystemdEncoder() zapcore.Encoder {
	encoderCfg := zap.NewDevelopmentEncoderConfig()

	// No timestamp - Journald handles it
	encoderCfg.TimeKey = ""
	encoderCfg.EncodeTime = nil

	// No caller - keep it clean for ops debugging
	encoderCfg.CallerKey = ""
	encoderCfg.EncodeCaller = nil

	// Outputs "<6>INFO"; journald strips the prefix, the user sees "INFO"
	encoderCfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(syslogPriority(l) + l.CapitalString())
	}

	return zapcore.NewConsoleEncoder(encoderCfg)
}

func buildPrettyEncoder(cfg Config) zapcore.Encoder {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	if cfg.Console.Color {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	encoderCfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(encoderCfg)
}

func buildJSONEncoder() zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.MessageKey = "msg"
	encoderCfg.LevelKey = "level"
	encoderCfg.CallerKey = "caller"
	return zapcore.NewJSONEncoder(encoderCfg)
}

func buildFileCore(cfg Config, level zapcore.LevelEnabler) zapcore.Core {
	writer := NewFileWriter(cfg.File)
	if writer == nil {
		return nil
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	return zapcore.NewCore(encoder, zapcore.AddSync(writer), level)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
