// This file implements the manual recording API: four functions that map
// evaluation records onto OpenTelemetry spans. Each accepts a partially
// populated record and emits exactly one span regardless of how sparse the
// input is; absent fields are skipped rather than zero-filled.
package aegis

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/coherencelabs/aegis/semconv"
)

// RecordIntegrityCheck records an integrity signal as a single internal span
// named "aip.integrity_check", parented under the span active on ctx.
//
// Checkpoint, signal, analysis-metadata, conscience, and window fields map to
// the aip.* attribute namespace, with the verdict and window integrity ratio
// mirrored to the gen_ai.evaluation.* aliases. Each concern becomes an
// "aip.concern" event carrying category, severity, and description ("" when
// missing), and an attribute-less "aip.drift_alert" event is added when the
// window summary reports an active drift alert.
//
// A nil signal still produces a span; it just carries no attributes.
func RecordIntegrityCheck(ctx context.Context, tracer trace.Tracer, signal *IntegritySignal) trace.Span {
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
	conscience := cp.ConscienceContext
	if conscience == nil {
		conscience = &ConscienceContext{}
	}
	win := signal.WindowSummary
	if win == nil {
		win = &WindowSummary{}
	}

	var set attrSet

	// Checkpoint
	set.putString(semconv.AIPIntegrityCheckpointIDKey, cp.CheckpointID)
	set.putString(semconv.AIPIntegrityVerdictKey, cp.Verdict)
	set.putString(semconv.AIPIntegrityAgentIDKey, cp.AgentID)
	set.putString(semconv.AIPIntegrityCardIDKey, cp.CardID)
	set.putString(semconv.AIPIntegritySessionIDKey, cp.SessionID)
	set.putString(semconv.AIPIntegrityThinkingHashKey, cp.ThinkingBlockHash)

	// Signal
	set.putBool(semconv.AIPIntegrityProceedKey, signal.Proceed)
	set.putString(semconv.AIPIntegrityRecommendedActionKey, signal.RecommendedAction)
	if cp.Concerns != nil {
		set.putCount(semconv.AIPIntegrityConcernsCountKey, len(cp.Concerns))
	}

	// Analysis metadata
	set.putString(semconv.AIPIntegrityAnalysisModelKey, meta.AnalysisModel)
	set.putFloat64(semconv.AIPIntegrityAnalysisDurationKey, meta.AnalysisDurationMillis)
	set.putInt64(semconv.AIPIntegrityThinkingTokensKey, meta.ThinkingTokensOriginal)
	set.putBool(semconv.AIPIntegrityTruncatedKey, meta.Truncated)
	set.putFloat64(semconv.AIPIntegrityExtractionConfidenceKey, meta.ExtractionConfidence)

	// Conscience context
	set.putString(semconv.AIPConscienceConsultationDepthKey, conscience.ConsultationDepth)
	if conscience.ValuesChecked != nil {
		set.putCount(semconv.AIPConscienceValuesCheckedCountKey, len(conscience.ValuesChecked))
	}
	if conscience.Conflicts != nil {
		set.putCount(semconv.AIPConscienceConflictsCountKey, len(conscience.Conflicts))
	}

	// Window summary
	set.putInt64(semconv.AIPWindowSizeKey, win.Size)
	set.putFloat64(semconv.AIPWindowIntegrityRatioKey, win.IntegrityRatio)
	set.putBool(semconv.AIPWindowDriftAlertActiveKey, win.DriftAlertActive)

	// GenAI SIG forward-compat aliases
	set.putString(semconv.GenAIEvaluationVerdictKey, cp.Verdict)
	set.putFloat64(semconv.GenAIEvaluationScoreKey, win.IntegrityRatio)

	var events []spanEvent
	for _, concern := range cp.Concerns {
		events = append(events, spanEvent{
			name: semconv.EventAIPConcern,
			attrs: []attribute.KeyValue{
				attribute.String("category", concern.Category),
				attribute.String("severity", concern.Severity),
				attribute.String("description", concern.Description),
			},
		})
	}
	if win.DriftAlertActive != nil && *win.DriftAlertActive {
		events = append(events, spanEvent{name: semconv.EventAIPDriftAlert})
	}

	return emitSpan(ctx, tracer, semconv.SpanAIPIntegrityCheck, set.kvs, events)
}

// RecordVerification records a verification result as a single internal span
// named "aap.verify_trace".
//
// The checks_performed attribute joins the performed check names with ", "
// and is omitted when the list is absent or empty. Each violation becomes an
// "aap.violation" event carrying type, severity, and description ("" when
// missing); warnings only surface through the warnings_count attribute.
func RecordVerification(ctx context.Context, tracer trace.Tracer, result *VerificationResult) trace.Span {
	if result == nil {
		result = &VerificationResult{}
	}
	meta := result.Metadata
	if meta == nil {
		meta = &VerificationMetadata{}
	}

	var set attrSet
	set.putBool(semconv.AAPVerificationResultKey, result.Verified)
	set.putFloat64(semconv.AAPVerificationSimilarityScoreKey, result.SimilarityScore)
	if result.Violations != nil {
		set.putCount(semconv.AAPVerificationViolationsCountKey, len(result.Violations))
	}
	if result.Warnings != nil {
		set.putCount(semconv.AAPVerificationWarningsCountKey, len(result.Warnings))
	}
	set.putString(semconv.AAPVerificationTraceIDKey, result.TraceID)
	set.putString(semconv.AAPVerificationCardIDKey, result.CardID)
	set.putFloat64(semconv.AAPVerificationDurationKey, meta.DurationMillis)
	if len(meta.ChecksPerformed) > 0 {
		set.kvs = append(set.kvs, semconv.AAPVerificationChecksPerformedKey.String(
			strings.Join(meta.ChecksPerformed, ", ")))
	}

	var events []spanEvent
	for _, violation := range result.Violations {
		events = append(events, spanEvent{
			name: semconv.EventAAPViolation,
			attrs: []attribute.KeyValue{
				attribute.String("type", violation.Type),
				attribute.String("severity", violation.Severity),
				attribute.String("description", violation.Description),
			},
		})
	}

	return emitSpan(ctx, tracer, semconv.SpanAAPVerifyTrace, set.kvs, events)
}

// RecordCoherence records a coherence result as a single internal span named
// "aap.check_coherence". Coherence spans carry five attributes at most and
// never carry events.
func RecordCoherence(ctx context.Context, tracer trace.Tracer, result *CoherenceResult) trace.Span {
	if result == nil {
		result = &CoherenceResult{}
	}
	alignment := result.ValueAlignment
	if alignment == nil {
		alignment = &ValueAlignment{}
	}

	var set attrSet
	set.putBool(semconv.AAPCoherenceCompatibleKey, result.Compatible)
	set.putFloat64(semconv.AAPCoherenceScoreKey, result.Score)
	set.putBool(semconv.AAPCoherenceProceedKey, result.Proceed)
	if alignment.Matched != nil {
		set.putCount(semconv.AAPCoherenceMatchedCountKey, len(alignment.Matched))
	}
	if alignment.Conflicts != nil {
		set.putCount(semconv.AAPCoherenceConflictCountKey, len(alignment.Conflicts))
	}

	return emitSpan(ctx, tracer, semconv.SpanAAPCheckCoherence, set.kvs, nil)
}

// RecordDrift records a drift detection pass as a single internal span named
// "aap.detect_drift".
//
// Unlike the other recorders, both attributes are always present:
// alerts_count is len(alerts) (0 for nil) and traces_analyzed is whatever the
// caller passes (conventionally 0 when unknown). Each alert becomes an
// "aap.drift_alert" event whose attributes (alert_type, agent_id, card_id,
// similarity_score, drift_direction, recommendation) are set only when the
// corresponding alert field is present.
func RecordDrift(ctx context.Context, tracer trace.Tracer, alerts []DriftAlert, tracesAnalyzed int64) trace.Span {
	set := attrSet{kvs: []attribute.KeyValue{
		semconv.AAPDriftAlertsCountKey.Int(len(alerts)),
		semconv.AAPDriftTracesAnalyzedKey.Int64(tracesAnalyzed),
	}}

	var events []spanEvent
	for _, alert := range alerts {
		analysis := alert.Analysis
		if analysis == nil {
			analysis = &DriftAnalysis{}
		}

		var ev attrSet
		ev.putString("alert_type", alert.AlertType)
		ev.putString("agent_id", alert.AgentID)
		ev.putString("card_id", alert.CardID)
		ev.putFloat64("similarity_score", analysis.SimilarityScore)
		ev.putString("drift_direction", analysis.DriftDirection)
		ev.putString("recommendation", alert.Recommendation)

		events = append(events, spanEvent{name: semconv.EventAAPDriftAlert, attrs: ev.kvs})
	}

	return emitSpan(ctx, tracer, semconv.SpanAAPDetectDrift, set.kvs, events)
}
