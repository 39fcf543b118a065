package aegis

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ScopeName is the default instrumentation scope under which evaluation
// spans and instruments are created.
const ScopeName = "github.com/coherencelabs/aegis"

type recorderConfig struct {
	provider    trace.TracerProvider
	scopeName   string
	instruments *Instruments
}

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderConfig)

// WithTracerProvider sets the provider Recorder spans are created from.
// Defaults to the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) RecorderOption {
	return func(cfg *recorderConfig) {
		if tp != nil {
			cfg.provider = tp
		}
	}
}

// WithScopeName overrides the instrumentation scope name. Defaults to
// ScopeName.
func WithScopeName(name string) RecorderOption {
	return func(cfg *recorderConfig) {
		if name != "" {
			cfg.scopeName = name
		}
	}
}

// WithInstruments attaches metric instruments so every Record* call updates
// metrics alongside its span.
func WithInstruments(in *Instruments) RecorderOption {
	return func(cfg *recorderConfig) { cfg.instruments = in }
}

// Recorder binds one tracer, and optionally one set of instruments, so call
// sites record evaluation telemetry without threading them through every
// call. A Recorder is safe for concurrent use.
type Recorder struct {
	tracer      trace.Tracer
	instruments *Instruments
}

// NewRecorder builds a Recorder. With no options it records through the
// global tracer provider under the default scope name and touches no metrics.
func NewRecorder(opts ...RecorderOption) *Recorder {
	cfg := recorderConfig{
		provider:  otel.GetTracerProvider(),
		scopeName: ScopeName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Recorder{
		tracer:      cfg.provider.Tracer(cfg.scopeName),
		instruments: cfg.instruments,
	}
}

// RecordIntegrityCheck records an integrity signal span, plus integrity
// metrics when instruments are attached.
func (r *Recorder) RecordIntegrityCheck(ctx context.Context, signal *IntegritySignal) trace.Span {
	span := RecordIntegrityCheck(ctx, r.tracer, signal)
	if r.instruments != nil {
		r.instruments.RecordIntegrityMetrics(ctx, signal)
	}
	return span
}

// RecordVerification records a verification result span, plus verification
// metrics when instruments are attached.
func (r *Recorder) RecordVerification(ctx context.Context, result *VerificationResult) trace.Span {
	span := RecordVerification(ctx, r.tracer, result)
	if r.instruments != nil {
		r.instruments.RecordVerificationMetrics(ctx, result)
	}
	return span
}

// RecordCoherence records a coherence result span, plus the coherence score
// histogram when instruments are attached.
func (r *Recorder) RecordCoherence(ctx context.Context, result *CoherenceResult) trace.Span {
	span := RecordCoherence(ctx, r.tracer, result)
	if r.instruments != nil {
		r.instruments.RecordCoherenceMetrics(ctx, result)
	}
	return span
}

// RecordDrift records a drift detection span. Drift detection has no
// dedicated instruments; the drift alert counter is fed by integrity window
// summaries.
func (r *Recorder) RecordDrift(ctx context.Context, alerts []DriftAlert, tracesAnalyzed int64) trace.Span {
	return RecordDrift(ctx, r.tracer, alerts, tracesAnalyzed)
}
