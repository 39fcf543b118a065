package aegis

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/coherencelabs/aegis/internal/otelsetup"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Aegis is the unified observability instance providing logging, tracing,
// metrics, and evaluation-signal recording.
// It implements the Logger interface directly, so you can use it for logging.
//
// Example:
//
//	app, warnings, err := aegis.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Shutdown(context.Background())
//
//	// Logging (Aegis implements Logger)
//	app.Info(ctx, "message", aegis.F("key", "value"))
//
//	// Recording evaluation signals
//	app.Recorder().RecordIntegrityCheck(ctx, signal)
//
//	// Global usage (same API)
//	aegis.SetGlobal(app)
//	aegis.Info(ctx, "works from anywhere")
type Aegis struct {
	logger         Logger
	serviceName    string
	version        string
	tracerProvider *otelsetup.TracerProvider
	meterProvider  *otelsetup.MeterProvider
	instruments    *Instruments
	recorder       *Recorder
	tracingEnabled bool
}

// Warning represents a non-fatal initialization issue.
// New returns warnings instead of failing when optional components
// (OTEL logs, tracing, metrics) cannot be initialized.
type Warning struct {
	Component string // "otel", "tracing", "metrics", "instruments"
	Err       error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Component, w.Err)
}

// New creates a new Aegis instance with the given configuration.
// This is the single entry point for creating aegis observability.
//
// Returns:
//   - *Aegis: Always returns a working instance (may use fallbacks)
//   - []Warning: Non-fatal issues (e.g., OTEL connection failed, tracing disabled)
//   - error: Fatal configuration errors (currently always nil, reserved for future use)
//
// Example:
//
//	app, warnings, err := aegis.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range warnings {
//	    log.Printf("aegis warning: %v", w)
//	}
func New(cfg Config) (*Aegis, []Warning, error) {
	var warnings []Warning

	a := &Aegis{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
	}

	// Create logger
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		logger, err := newZapLoggerWithOTEL(cfg)
		if err != nil {
			warnings = append(warnings, Warning{
				Component: "otel",
				Err:       fmt.Errorf("failed to init OTEL logger: %w (using basic logger)", err),
			})
			a.logger = newZapLogger(cfg)
		} else {
			a.logger = logger
		}
	} else {
		a.logger = newZapLogger(cfg)
	}

	// Setup tracing
	if cfg.Tracing.Enabled {
		tp, err := otelsetup.SetupTracerProvider(traceConfig(cfg), cfg.ServiceName, cfg.Version)
		if err != nil {
			warnings = append(warnings, Warning{
				Component: "tracing",
				Err:       fmt.Errorf("failed to init tracing: %w (tracing disabled)", err),
			})
		} else if tp != nil {
			a.tracerProvider = tp
			a.tracingEnabled = true
		}
	}

	// Setup metrics
	if cfg.Metrics.Enabled {
		mp, err := otelsetup.SetupMeterProvider(metricConfig(cfg), cfg.ServiceName, cfg.Version)
		if err != nil {
			warnings = append(warnings, Warning{
				Component: "metrics",
				Err:       fmt.Errorf("failed to init metrics: %w (metrics disabled)", err),
			})
		} else if mp != nil {
			a.meterProvider = mp

			inst, err := NewInstruments(mp.Meter(ScopeName))
			if err != nil {
				warnings = append(warnings, Warning{
					Component: "instruments",
					Err:       fmt.Errorf("failed to create instruments: %w (metric recording disabled)", err),
				})
			} else {
				a.instruments = inst
			}
		}
	}

	// Recorder picks up the global tracer provider set during tracing setup.
	// With tracing disabled the spans are no-ops, metrics still record.
	a.recorder = NewRecorder(WithInstruments(a.instruments))

	return a, warnings, nil
}

// traceConfig maps the public tracing settings to the internal setup config.
// Endpoint, protocol, and insecure fall back to the OTEL log settings, so a
// single collector endpoint configures all three signals.
func traceConfig(cfg Config) otelsetup.TraceConfig {
	endpoint := cfg.Tracing.Endpoint
	if endpoint == "" {
		endpoint = cfg.OTEL.Endpoint
	}

	protocol := cfg.Tracing.Protocol
	if protocol == "" {
		protocol = cfg.OTEL.Protocol
	}

	insecure := cfg.Tracing.Insecure
	if !insecure && cfg.OTEL.Insecure {
		insecure = true
	}

	return otelsetup.TraceConfig{
		Enabled:        true,
		Exporter:       cfg.Tracing.Exporter,
		Endpoint:       endpoint,
		Protocol:       protocol,
		Insecure:       insecure,
		Username:       cfg.Tracing.Username,
		Password:       cfg.Tracing.Password,
		Sampler:        cfg.Tracing.Sampler,
		Propagators:    cfg.Tracing.Propagators,
		BatchSize:      cfg.Tracing.BatchSize,
		ExportInterval: cfg.Tracing.ExportInterval,
		Timeout:        cfg.Tracing.Timeout,
		Headers:        cfg.Tracing.Headers,
		Attributes:     cfg.Tracing.Attributes,
	}
}

// metricConfig maps the public metrics settings to the internal setup config,
// with the same OTEL fallbacks as traceConfig.
func metricConfig(cfg Config) otelsetup.MetricConfig {
	endpoint := cfg.Metrics.Endpoint
	if endpoint == "" {
		endpoint = cfg.OTEL.Endpoint
	}

	protocol := cfg.Metrics.Protocol
	if protocol == "" {
		protocol = cfg.OTEL.Protocol
	}

	insecure := cfg.Metrics.Insecure
	if !insecure && cfg.OTEL.Insecure {
		insecure = true
	}

	return otelsetup.MetricConfig{
		Enabled:    true,
		Exporter:   cfg.Metrics.Exporter,
		Endpoint:   endpoint,
		Protocol:   protocol,
		Insecure:   insecure,
		Username:   cfg.Metrics.Username,
		Password:   cfg.Metrics.Password,
		Interval:   cfg.Metrics.Interval,
		Timeout:    cfg.Metrics.Timeout,
		Headers:    cfg.Metrics.Headers,
		Attributes: cfg.Metrics.Attributes,
	}
}

// --- Logger interface implementation ---

func (a *Aegis) Debug(ctx context.Context, msg string, fields ...Field) {
	a.logger.Debug(ctx, msg, fields...)
}

func (a *Aegis) Info(ctx context.Context, msg string, fields ...Field) {
	a.logger.Info(ctx, msg, fields...)
}

func (a *Aegis) Warn(ctx context.Context, msg string, fields ...Field) {
	a.logger.Warn(ctx, msg, fields...)
}

func (a *Aegis) Error(ctx context.Context, msg string, err error, fields ...Field) {
	a.logger.Error(ctx, msg, err, fields...)
}

func (a *Aegis) Critical(ctx context.Context, msg string, err error, fields ...Field) {
	a.logger.Critical(ctx, msg, err, fields...)
}

func (a *Aegis) With(fields ...Field) Logger {
	return a.logger.With(fields...)
}

func (a *Aegis) Named(name string) Logger {
	return a.logger.Named(name)
}

func (a *Aegis) Sync() error {
	return a.logger.Sync()
}

func (a *Aegis) SetLevel(level string) {
	a.logger.SetLevel(level)
}

func (a *Aegis) GetLevel() string {
	return a.logger.GetLevel()
}

// --- Telemetry access ---

var tracingDisabledOnce sync.Once

// Tracer returns a named tracer for creating spans.
// If tracing is not enabled, returns a no-op tracer (logs a warning once).
func (a *Aegis) Tracer(name string) trace.Tracer {
	if !a.tracingEnabled || a.tracerProvider == nil {
		tracingDisabledOnce.Do(func() {
			log.Println("[aegis] Tracing disabled: Tracer() returning no-op. Enable via Config.Tracing.Enabled")
		})
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Meter returns a named meter. Returns a no-op meter when metrics are
// disabled.
func (a *Aegis) Meter(name string) metric.Meter {
	return a.meterProvider.Meter(name)
}

// Recorder returns the evaluation-signal recorder bound to this instance's
// instruments.
func (a *Aegis) Recorder() *Recorder {
	return a.recorder
}

// Instruments returns the metric instruments, or nil when metrics are
// disabled.
func (a *Aegis) Instruments() *Instruments {
	return a.instruments
}

// MetricsHandler returns the Prometheus scrape handler, or nil unless the
// prometheus metrics exporter is configured.
//
//	if h := app.MetricsHandler(); h != nil {
//	    http.Handle("/metrics", h)
//	}
func (a *Aegis) MetricsHandler() http.Handler {
	return a.meterProvider.Handler()
}

// --- Lifecycle ---

// Shutdown gracefully shuts down logging, tracing, and metrics.
func (a *Aegis) Shutdown(ctx context.Context) error {
	var firstErr error

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}

	if a.meterProvider != nil {
		if err := a.meterProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if a.logger != nil {
		if err := a.logger.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
