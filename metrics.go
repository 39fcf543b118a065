// This file defines the metric instruments that complement the span
// recorders, plus the functions that update them from evaluation records.
package aegis

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/coherencelabs/aegis/semconv"
)

// Instruments bundles the evaluation counters and histograms. Build one per
// meter with NewInstruments and share it; instruments are safe for concurrent
// use.
type Instruments struct {
	IntegrityChecks metric.Int64Counter
	Concerns        metric.Int64Counter
	DriftAlerts     metric.Int64Counter
	Verifications   metric.Int64Counter
	Violations      metric.Int64Counter

	AnalysisDuration     metric.Float64Histogram
	IntegrityRatio       metric.Float64Histogram
	VerificationDuration metric.Float64Histogram
	CoherenceScore       metric.Float64Histogram
}

// NewInstruments creates the evaluation instruments on meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	var (
		in  Instruments
		err error
	)

	in.IntegrityChecks, err = meter.Int64Counter(
		semconv.MetricAIPIntegrityChecksTotal,
		metric.WithDescription("Total AIP integrity checks"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", semconv.MetricAIPIntegrityChecksTotal, err)
	}

	in.Concerns, err = meter.Int64Counter(
		semconv.MetricAIPConcernsTotal,
		metric.WithDescription("Total AIP concerns raised"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", semconv.MetricAIPConcernsTotal, err)
	}

	in.AnalysisDuration, err = meter.Float64Histogram(
		semconv.MetricAIPAnalysisDuration,
		metric.WithDescription("AIP analysis duration in ms"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", semconv.MetricAIPAnalysisDuration, err)
	}

	in.IntegrityRatio, err = meter.Float64Histogram(
		semconv.MetricAIPWindowIntegrityRatio,
		metric.WithDescription("Window integrity ratio"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", semconv.MetricAIPWindowIntegrityRatio, err)
	}

	in.DriftAlerts, err = meter.Int64Counter(
		semconv.MetricAIPDriftAlertsTotal,
		metric.WithDescription("Total drift alerts"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", semconv.MetricAIPDriftAlertsTotal, err)
	}

	in.Verifications, err = meter.Int64Counter(
		semconv.MetricAAPVerificationsTotal,
		metric.WithDescription("Total AAP verifications"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", semconv.MetricAAPVerificationsTotal, err)
	}

	in.Violations, err = meter.Int64Counter(
		semconv.MetricAAPViolationsTotal,
		metric.WithDescription("Total AAP violations"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", semconv.MetricAAPViolationsTotal, err)
	}

	in.VerificationDuration, err = meter.Float64Histogram(
		semconv.MetricAAPVerificationDuration,
		metric.WithDescription("AAP verification duration in ms"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", semconv.MetricAAPVerificationDuration, err)
	}

	in.CoherenceScore, err = meter.Float64Histogram(
		semconv.MetricAAPCoherenceScore,
		metric.WithDescription("AAP coherence score"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", semconv.MetricAAPCoherenceScore, err)
	}

	return &in, nil
}

// RecordIntegrityMetrics updates the integrity instruments from signal.
//
// Every call increments IntegrityChecks once, labeled with the checkpoint
// verdict or "unknown" when the verdict is absent or empty. Concerns,
// AnalysisDuration, IntegrityRatio, and DriftAlerts update only when their
// source fields are present; the ratio histogram and drift counter carry no
// labels.
func (in *Instruments) RecordIntegrityMetrics(ctx context.Context, signal *IntegritySignal) {
	if signal == nil {
		signal = &IntegritySignal{}
	}
	cp := signal.Checkpoint
	if cp == nil {
		cp = &Checkpoint{}
	}
	meta := cp.AnalysisMetadata
	if meta == nil {
		meta = &AnalysisMetadata{}
	}
	win := signal.WindowSummary
	if win == nil {
		win = &WindowSummary{}
	}

	verdict := "unknown"
	if cp.Verdict != nil && *cp.Verdict != "" {
		verdict = *cp.Verdict
	}
	byVerdict := metric.WithAttributes(attribute.String("verdict", verdict))

	in.IntegrityChecks.Add(ctx, 1, byVerdict)

	if n := len(cp.Concerns); n > 0 {
		in.Concerns.Add(ctx, int64(n), byVerdict)
	}
	if meta.AnalysisDurationMillis != nil {
		in.AnalysisDuration.Record(ctx, *meta.AnalysisDurationMillis, byVerdict)
	}
	if win.IntegrityRatio != nil {
		in.IntegrityRatio.Record(ctx, *win.IntegrityRatio)
	}
	if win.DriftAlertActive != nil && *win.DriftAlertActive {
		in.DriftAlerts.Add(ctx, 1)
	}
}

// RecordVerificationMetrics updates the verification instruments from result.
//
// Every call increments Verifications once, labeled pass/fail/unknown from
// the verified field (unknown when absent). Violations and
// VerificationDuration update only when present, with the same label.
func (in *Instruments) RecordVerificationMetrics(ctx context.Context, result *VerificationResult) {
	if result == nil {
		result = &VerificationResult{}
	}
	meta := result.Metadata
	if meta == nil {
		meta = &VerificationMetadata{}
	}

	label := "unknown"
	switch {
	case result.Verified == nil:
	case *result.Verified:
		label = "pass"
	default:
		label = "fail"
	}
	byResult := metric.WithAttributes(attribute.String("result", label))

	in.Verifications.Add(ctx, 1, byResult)

	if n := len(result.Violations); n > 0 {
		in.Violations.Add(ctx, int64(n), byResult)
	}
	if meta.DurationMillis != nil {
		in.VerificationDuration.Record(ctx, *meta.DurationMillis, byResult)
	}
}

// RecordCoherenceMetrics records the coherence score histogram from result.
// Nothing is recorded when the score is absent.
func (in *Instruments) RecordCoherenceMetrics(ctx context.Context, result *CoherenceResult) {
	if result == nil || result.Score == nil {
		return
	}
	in.CoherenceScore.Record(ctx, *result.Score)
}
