package aegis

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/coherencelabs/aegis/semconv"
)

func newTestInstruments(t *testing.T) (*sdkmetric.ManualReader, *Instruments) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	in, err := NewInstruments(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewInstruments() error: %v", err)
	}
	return reader, in
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	byName := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			byName[m.Name] = m
		}
	}
	return byName
}

// counterValue returns the data point of a counter whose label set carries
// key=value, failing the test when no such point exists.
func counterValue(t *testing.T, m metricdata.Metrics, key, value string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: data is %T, want Sum[int64]", m.Name, m.Data)
	}
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return dp.Value
		}
	}
	t.Fatalf("%s: no data point with %s=%q", m.Name, key, value)
	return 0
}

func unlabeledCounterValue(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: data is %T, want Sum[int64]", m.Name, m.Data)
	}
	if len(sum.DataPoints) != 1 {
		t.Fatalf("%s: expected 1 data point, got %d", m.Name, len(sum.DataPoints))
	}
	return sum.DataPoints[0].Value
}

func histogramPoint(t *testing.T, m metricdata.Metrics) metricdata.HistogramDataPoint[float64] {
	t.Helper()
	hist, ok := m.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("%s: data is %T, want Histogram[float64]", m.Name, m.Data)
	}
	if len(hist.DataPoints) != 1 {
		t.Fatalf("%s: expected 1 data point, got %d", m.Name, len(hist.DataPoints))
	}
	return hist.DataPoints[0]
}

func TestNewInstruments(t *testing.T) {
	_, in := newTestInstruments(t)

	if in.IntegrityChecks == nil || in.Concerns == nil || in.DriftAlerts == nil ||
		in.Verifications == nil || in.Violations == nil {
		t.Error("expected all counters to be created")
	}
	if in.AnalysisDuration == nil || in.IntegrityRatio == nil ||
		in.VerificationDuration == nil || in.CoherenceScore == nil {
		t.Error("expected all histograms to be created")
	}
}

func TestRecordIntegrityMetrics_FullSignal(t *testing.T) {
	ctx := context.Background()
	reader, in := newTestInstruments(t)

	in.RecordIntegrityMetrics(ctx, fullIntegritySignal())

	metrics := collect(t, reader)

	checks := metrics[semconv.MetricAIPIntegrityChecksTotal]
	if got := counterValue(t, checks, "verdict", "review_needed"); got != 1 {
		t.Errorf("integrity checks = %d, want 1", got)
	}

	concerns := metrics[semconv.MetricAIPConcernsTotal]
	if got := counterValue(t, concerns, "verdict", "review_needed"); got != 2 {
		t.Errorf("concerns = %d, want 2", got)
	}

	duration := histogramPoint(t, metrics[semconv.MetricAIPAnalysisDuration])
	if duration.Count != 1 || duration.Sum != 450.5 {
		t.Errorf("analysis duration count=%d sum=%v, want 1/450.5", duration.Count, duration.Sum)
	}

	ratio := histogramPoint(t, metrics[semconv.MetricAIPWindowIntegrityRatio])
	if ratio.Count != 1 || ratio.Sum != 0.8 {
		t.Errorf("integrity ratio count=%d sum=%v, want 1/0.8", ratio.Count, ratio.Sum)
	}

	// Drift inactive, so the alerts counter never recorded.
	if _, ok := metrics[semconv.MetricAIPDriftAlertsTotal]; ok {
		t.Error("drift alerts counter should have no data")
	}
}

func TestRecordIntegrityMetrics_VerdictLabels(t *testing.T) {
	ctx := context.Background()
	reader, in := newTestInstruments(t)

	// Distinct verdicts must land on distinct label sets, not accumulate
	// under one.
	in.RecordIntegrityMetrics(ctx, &IntegritySignal{
		Checkpoint: &Checkpoint{Verdict: Ptr("clear")},
	})
	in.RecordIntegrityMetrics(ctx, &IntegritySignal{
		Checkpoint: &Checkpoint{Verdict: Ptr("review_needed")},
	})

	checks := collect(t, reader)[semconv.MetricAIPIntegrityChecksTotal]
	if got := counterValue(t, checks, "verdict", "clear"); got != 1 {
		t.Errorf("clear count = %d, want 1", got)
	}
	if got := counterValue(t, checks, "verdict", "review_needed"); got != 1 {
		t.Errorf("review_needed count = %d, want 1", got)
	}
}

func TestRecordIntegrityMetrics_UnknownVerdict(t *testing.T) {
	ctx := context.Background()

	for _, tt := range []struct {
		name   string
		signal *IntegritySignal
	}{
		{"nil signal", nil},
		{"nil verdict", &IntegritySignal{Checkpoint: &Checkpoint{}}},
		{"empty verdict", &IntegritySignal{Checkpoint: &Checkpoint{Verdict: Ptr("")}}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			reader, in := newTestInstruments(t)
			in.RecordIntegrityMetrics(ctx, tt.signal)

			checks := collect(t, reader)[semconv.MetricAIPIntegrityChecksTotal]
			if got := counterValue(t, checks, "verdict", "unknown"); got != 1 {
				t.Errorf("unknown count = %d, want 1", got)
			}
		})
	}
}

func TestRecordIntegrityMetrics_DriftAlert(t *testing.T) {
	ctx := context.Background()
	reader, in := newTestInstruments(t)

	in.RecordIntegrityMetrics(ctx, &IntegritySignal{
		WindowSummary: &WindowSummary{DriftAlertActive: Ptr(true)},
	})

	alerts := collect(t, reader)[semconv.MetricAIPDriftAlertsTotal]
	if got := unlabeledCounterValue(t, alerts); got != 1 {
		t.Errorf("drift alerts = %d, want 1", got)
	}
}

func TestRecordVerificationMetrics_ResultLabels(t *testing.T) {
	ctx := context.Background()
	reader, in := newTestInstruments(t)

	in.RecordVerificationMetrics(ctx, &VerificationResult{Verified: Ptr(true)})
	in.RecordVerificationMetrics(ctx, &VerificationResult{Verified: Ptr(false)})
	in.RecordVerificationMetrics(ctx, &VerificationResult{})

	verifications := collect(t, reader)[semconv.MetricAAPVerificationsTotal]
	for _, label := range []string{"pass", "fail", "unknown"} {
		if got := counterValue(t, verifications, "result", label); got != 1 {
			t.Errorf("%s count = %d, want 1", label, got)
		}
	}
}

func TestRecordVerificationMetrics_ViolationsAndDuration(t *testing.T) {
	ctx := context.Background()
	reader, in := newTestInstruments(t)

	in.RecordVerificationMetrics(ctx, &VerificationResult{
		Verified: Ptr(false),
		Violations: []Violation{
			{Type: "forbidden_action"},
			{Type: "boundary_breach"},
		},
		Metadata: &VerificationMetadata{DurationMillis: Ptr(120.0)},
	})

	metrics := collect(t, reader)

	violations := metrics[semconv.MetricAAPViolationsTotal]
	if got := counterValue(t, violations, "result", "fail"); got != 2 {
		t.Errorf("violations = %d, want 2", got)
	}

	duration := histogramPoint(t, metrics[semconv.MetricAAPVerificationDuration])
	if duration.Count != 1 || duration.Sum != 120.0 {
		t.Errorf("duration count=%d sum=%v, want 1/120", duration.Count, duration.Sum)
	}
}

func TestRecordCoherenceMetrics(t *testing.T) {
	ctx := context.Background()
	reader, in := newTestInstruments(t)

	in.RecordCoherenceMetrics(ctx, &CoherenceResult{Score: Ptr(0.9)})

	score := histogramPoint(t, collect(t, reader)[semconv.MetricAAPCoherenceScore])
	if score.Count != 1 || score.Sum != 0.9 {
		t.Errorf("coherence score count=%d sum=%v, want 1/0.9", score.Count, score.Sum)
	}
}

func TestRecordCoherenceMetrics_AbsentScore(t *testing.T) {
	ctx := context.Background()
	reader, in := newTestInstruments(t)

	in.RecordCoherenceMetrics(ctx, &CoherenceResult{Compatible: Ptr(true)})
	in.RecordCoherenceMetrics(ctx, nil)

	if _, ok := collect(t, reader)[semconv.MetricAAPCoherenceScore]; ok {
		t.Error("coherence score should have no data without a score")
	}
}
