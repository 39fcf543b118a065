// Package semconv defines the semantic convention constants for AIP and AAP
// telemetry: attribute keys, span names, event names, and metric names.
//
// The primary namespaces are aip.* and aap.* (vendor-specific). Two
// gen_ai.evaluation.* aliases are carried for forward compatibility with the
// OTel GenAI SIG evaluation conventions.
//
// These strings are a stable public contract: dashboards, alerts, and trace
// queries depend on them. Renaming a key is a breaking change.
package semconv

import "go.opentelemetry.io/otel/attribute"

// --- AIP Integrity Check Attributes ---

const (
	AIPIntegrityCheckpointIDKey          = attribute.Key("aip.integrity.checkpoint_id")
	AIPIntegrityVerdictKey               = attribute.Key("aip.integrity.verdict")
	AIPIntegrityProceedKey               = attribute.Key("aip.integrity.proceed")
	AIPIntegrityRecommendedActionKey     = attribute.Key("aip.integrity.recommended_action")
	AIPIntegrityConcernsCountKey         = attribute.Key("aip.integrity.concerns_count")
	AIPIntegrityAgentIDKey               = attribute.Key("aip.integrity.agent_id")
	AIPIntegrityCardIDKey                = attribute.Key("aip.integrity.card_id")
	AIPIntegritySessionIDKey             = attribute.Key("aip.integrity.session_id")
	AIPIntegrityThinkingHashKey          = attribute.Key("aip.integrity.thinking_hash")
	AIPIntegrityAnalysisModelKey         = attribute.Key("aip.integrity.analysis_model")
	AIPIntegrityAnalysisDurationKey      = attribute.Key("aip.integrity.analysis_duration_ms")
	AIPIntegrityThinkingTokensKey        = attribute.Key("aip.integrity.thinking_tokens")
	AIPIntegrityTruncatedKey             = attribute.Key("aip.integrity.truncated")
	AIPIntegrityExtractionConfidenceKey  = attribute.Key("aip.integrity.extraction_confidence")
)

// --- AIP Conscience Attributes ---

const (
	AIPConscienceConsultationDepthKey  = attribute.Key("aip.conscience.consultation_depth")
	AIPConscienceValuesCheckedCountKey = attribute.Key("aip.conscience.values_checked_count")
	AIPConscienceConflictsCountKey     = attribute.Key("aip.conscience.conflicts_count")
)

// --- AIP Window Attributes ---

const (
	AIPWindowSizeKey             = attribute.Key("aip.window.size")
	AIPWindowIntegrityRatioKey   = attribute.Key("aip.window.integrity_ratio")
	AIPWindowDriftAlertActiveKey = attribute.Key("aip.window.drift_alert_active")
)

// --- GenAI SIG Forward-Compat Aliases ---

const (
	GenAIEvaluationVerdictKey = attribute.Key("gen_ai.evaluation.verdict")
	GenAIEvaluationScoreKey   = attribute.Key("gen_ai.evaluation.score")
)

// --- AAP Verification Attributes ---

const (
	AAPVerificationResultKey          = attribute.Key("aap.verification.result")
	AAPVerificationSimilarityScoreKey = attribute.Key("aap.verification.similarity_score")
	AAPVerificationViolationsCountKey = attribute.Key("aap.verification.violations_count")
	AAPVerificationWarningsCountKey   = attribute.Key("aap.verification.warnings_count")
	AAPVerificationTraceIDKey         = attribute.Key("aap.verification.trace_id")
	AAPVerificationCardIDKey          = attribute.Key("aap.verification.card_id")
	AAPVerificationDurationKey        = attribute.Key("aap.verification.duration_ms")
	AAPVerificationChecksPerformedKey = attribute.Key("aap.verification.checks_performed")
)

// --- AAP Coherence Attributes ---

const (
	AAPCoherenceCompatibleKey    = attribute.Key("aap.coherence.compatible")
	AAPCoherenceScoreKey         = attribute.Key("aap.coherence.score")
	AAPCoherenceProceedKey       = attribute.Key("aap.coherence.proceed")
	AAPCoherenceMatchedCountKey  = attribute.Key("aap.coherence.matched_count")
	AAPCoherenceConflictCountKey = attribute.Key("aap.coherence.conflict_count")
)

// --- AAP Drift Detection Attributes ---

const (
	AAPDriftAlertsCountKey    = attribute.Key("aap.drift.alerts_count")
	AAPDriftTracesAnalyzedKey = attribute.Key("aap.drift.traces_analyzed")
)

// --- AIP Drift Alert Attributes (for events) ---

const (
	AIPDriftAlertIDKey             = attribute.Key("aip.drift.alert_id")
	AIPDriftAgentIDKey             = attribute.Key("aip.drift.agent_id")
	AIPDriftSessionIDKey           = attribute.Key("aip.drift.session_id")
	AIPDriftIntegritySimilarityKey = attribute.Key("aip.drift.integrity_similarity")
	AIPDriftSustainedChecksKey     = attribute.Key("aip.drift.sustained_checks")
	AIPDriftSeverityKey            = attribute.Key("aip.drift.severity")
	AIPDriftDirectionKey           = attribute.Key("aip.drift.drift_direction")
	AIPDriftMessageKey             = attribute.Key("aip.drift.message")
)

// --- Span Names ---

const (
	SpanAIPIntegrityCheck = "aip.integrity_check"
	SpanAAPVerifyTrace    = "aap.verify_trace"
	SpanAAPCheckCoherence = "aap.check_coherence"
	SpanAAPDetectDrift    = "aap.detect_drift"
)

// --- Event Names ---

const (
	EventAIPConcern    = "aip.concern"
	EventAIPDriftAlert = "aip.drift_alert"
	EventAAPViolation  = "aap.violation"
	EventAAPDriftAlert = "aap.drift_alert"
)

// --- Metric Names ---

const (
	MetricAIPIntegrityChecksTotal = "aip.integrity_checks.total"
	// MetricAIPIntegrityChecksByVerdict is reserved; the verdict breakdown is
	// currently a label on MetricAIPIntegrityChecksTotal.
	MetricAIPIntegrityChecksByVerdict = "aip.integrity_checks.by_verdict"
	MetricAIPConcernsTotal            = "aip.concerns.total"
	MetricAIPAnalysisDuration         = "aip.analysis.duration_ms"
	MetricAIPWindowIntegrityRatio     = "aip.window.integrity_ratio"
	MetricAIPDriftAlertsTotal         = "aip.drift_alerts.total"
	MetricAAPVerificationsTotal       = "aap.verifications.total"
	MetricAAPViolationsTotal          = "aap.violations.total"
	MetricAAPVerificationDuration     = "aap.verification.duration_ms"
	MetricAAPCoherenceScore           = "aap.coherence.score"
)
