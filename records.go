// This file defines the record types accepted by the recording API. They
// mirror the wire shapes emitted by integrity and verification engines, so
// every field is optional: scalar fields are pointers where nil means the
// field was absent, and list fields are slices where a nil slice means absent
// and an empty non-nil slice means present-but-empty. The two cases map to
// different telemetry (an absent list omits its count attribute, an empty
// list reports 0), so decoders must preserve the distinction.
package aegis

// Ptr returns a pointer to v. It keeps literal record construction compact:
//
//	signal := &aegis.IntegritySignal{
//	    Proceed: aegis.Ptr(true),
//	    Checkpoint: &aegis.Checkpoint{
//	        Verdict: aegis.Ptr("clear"),
//	    },
//	}
func Ptr[T any](v T) *T { return &v }

// ─────────────────────────────────────────────────────────────────────────────
// Integrity (AIP) records
// ─────────────────────────────────────────────────────────────────────────────

// Concern is a single issue raised during an integrity analysis. The first
// three fields are plain strings: a concern event always carries category,
// severity, and description attributes, defaulting to "" when the engine
// omitted one.
type Concern struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`

	Evidence                *string `json:"evidence,omitempty"`
	RelevantCardField       *string `json:"relevant_card_field,omitempty"`
	RelevantConscienceValue *string `json:"relevant_conscience_value,omitempty"`
}

// ConscienceContext describes the value consultation performed for a
// checkpoint.
type ConscienceContext struct {
	ConsultationDepth *string  `json:"consultation_depth,omitempty"`
	ValuesChecked     []string `json:"values_checked,omitempty"`
	Conflicts         []string `json:"conflicts,omitempty"`
	Supports          []string `json:"supports,omitempty"`
	Considerations    []string `json:"considerations,omitempty"`
}

// AnalysisMetadata carries provenance for the model-driven analysis that
// produced a checkpoint.
type AnalysisMetadata struct {
	AnalysisModel          *string  `json:"analysis_model,omitempty"`
	AnalysisDurationMillis *float64 `json:"analysis_duration_ms,omitempty"`
	ThinkingTokensOriginal *int64   `json:"thinking_tokens_original,omitempty"`
	ThinkingTokensAnalyzed *int64   `json:"thinking_tokens_analyzed,omitempty"`
	Truncated              *bool    `json:"truncated,omitempty"`
	ExtractionConfidence   *float64 `json:"extraction_confidence,omitempty"`
}

// WindowVerdicts tallies verdicts within a window summary.
type WindowVerdicts struct {
	Clear             *int64 `json:"clear,omitempty"`
	ReviewNeeded      *int64 `json:"review_needed,omitempty"`
	BoundaryViolation *int64 `json:"boundary_violation,omitempty"`
}

// WindowSummary summarizes the rolling window of recent integrity checks.
type WindowSummary struct {
	Size             *int64          `json:"size,omitempty"`
	MaxSize          *int64          `json:"max_size,omitempty"`
	Verdicts         *WindowVerdicts `json:"verdicts,omitempty"`
	IntegrityRatio   *float64        `json:"integrity_ratio,omitempty"`
	DriftAlertActive *bool           `json:"drift_alert_active,omitempty"`
}

// WindowPosition locates a checkpoint within its window.
type WindowPosition struct {
	Index      *int64 `json:"index,omitempty"`
	WindowSize *int64 `json:"window_size,omitempty"`
}

// Checkpoint is one integrity checkpoint: a verdict over a single reasoning
// step, plus the analysis context that produced it.
type Checkpoint struct {
	CheckpointID      *string            `json:"checkpoint_id,omitempty"`
	AgentID           *string            `json:"agent_id,omitempty"`
	CardID            *string            `json:"card_id,omitempty"`
	SessionID         *string            `json:"session_id,omitempty"`
	Timestamp         *string            `json:"timestamp,omitempty"`
	ThinkingBlockHash *string            `json:"thinking_block_hash,omitempty"`
	Provider          *string            `json:"provider,omitempty"`
	Model             *string            `json:"model,omitempty"`
	Verdict           *string            `json:"verdict,omitempty"`
	Concerns          []Concern          `json:"concerns,omitempty"`
	ReasoningSummary  *string            `json:"reasoning_summary,omitempty"`
	ConscienceContext *ConscienceContext `json:"conscience_context,omitempty"`
	WindowPosition    *WindowPosition    `json:"window_position,omitempty"`
	AnalysisMetadata  *AnalysisMetadata  `json:"analysis_metadata,omitempty"`
	LinkedTraceID     *string            `json:"linked_trace_id,omitempty"`
}

// IntegritySignal is the primary integrity input: a checkpoint plus the
// signal-level decision and window summary.
type IntegritySignal struct {
	Checkpoint        *Checkpoint    `json:"checkpoint,omitempty"`
	Proceed           *bool          `json:"proceed,omitempty"`
	RecommendedAction *string        `json:"recommended_action,omitempty"`
	WindowSummary     *WindowSummary `json:"window_summary,omitempty"`
}

// IntegrityDriftAlert is the integrity-side drift alert shape. The recording
// API emits the aip.drift_alert span event without attributes; this type and
// the aip.drift.* attribute keys exist for callers that attach the full alert
// to their own spans.
type IntegrityDriftAlert struct {
	AlertID             *string  `json:"alert_id,omitempty"`
	AgentID             *string  `json:"agent_id,omitempty"`
	SessionID           *string  `json:"session_id,omitempty"`
	CheckpointIDs       []string `json:"checkpoint_ids,omitempty"`
	IntegritySimilarity *float64 `json:"integrity_similarity,omitempty"`
	SustainedChecks     *int64   `json:"sustained_checks,omitempty"`
	Severity            *string  `json:"severity,omitempty"`
	DriftDirection      *string  `json:"drift_direction,omitempty"`
	Message             *string  `json:"message,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Verification (AAP) records
// ─────────────────────────────────────────────────────────────────────────────

// Violation is a hard verification failure. Like Concern, the first three
// fields always materialize as event attributes, defaulting to "".
type Violation struct {
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	TraceField  *string `json:"trace_field,omitempty"`
}

// VerificationWarning is a soft verification finding.
type VerificationWarning struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	TraceField  *string `json:"trace_field,omitempty"`
}

// VerificationMetadata carries provenance for a verification run.
type VerificationMetadata struct {
	AlgorithmVersion *string  `json:"algorithm_version,omitempty"`
	ChecksPerformed  []string `json:"checks_performed,omitempty"`
	DurationMillis   *float64 `json:"duration_ms,omitempty"`
}

// VerificationResult is the primary verification input.
type VerificationResult struct {
	Verified        *bool                 `json:"verified,omitempty"`
	TraceID         *string               `json:"trace_id,omitempty"`
	CardID          *string               `json:"card_id,omitempty"`
	Timestamp       *string               `json:"timestamp,omitempty"`
	Violations      []Violation           `json:"violations,omitempty"`
	Warnings        []VerificationWarning `json:"warnings,omitempty"`
	Metadata        *VerificationMetadata `json:"verification_metadata,omitempty"`
	SimilarityScore *float64              `json:"similarity_score,omitempty"`
}

// ValueConflict is a single value-alignment conflict between two parties.
type ValueConflict struct {
	InitiatorValue string `json:"initiator_value"`
	ResponderValue string `json:"responder_value"`
	ConflictType   string `json:"conflict_type"`
	Description    string `json:"description"`
}

// ValueAlignment breaks down how two value sets lined up.
type ValueAlignment struct {
	Matched   []string        `json:"matched,omitempty"`
	Unmatched []string        `json:"unmatched,omitempty"`
	Conflicts []ValueConflict `json:"conflicts,omitempty"`
}

// CoherenceResult is the outcome of a coherence check between two agents.
type CoherenceResult struct {
	Compatible     *bool           `json:"compatible,omitempty"`
	Score          *float64        `json:"score,omitempty"`
	ValueAlignment *ValueAlignment `json:"value_alignment,omitempty"`
	Proceed        *bool           `json:"proceed,omitempty"`
	Conditions     []string        `json:"conditions,omitempty"`
}

// DriftIndicator is one concrete measurement behind a drift analysis.
type DriftIndicator struct {
	Indicator   string   `json:"indicator"`
	Baseline    *float64 `json:"baseline,omitempty"`
	Current     *float64 `json:"current,omitempty"`
	Description string   `json:"description"`
}

// DriftAnalysis quantifies behavioral drift across a set of traces.
type DriftAnalysis struct {
	SimilarityScore    *float64         `json:"similarity_score,omitempty"`
	SustainedTraces    *int64           `json:"sustained_traces,omitempty"`
	Threshold          *float64         `json:"threshold,omitempty"`
	DriftDirection     *string          `json:"drift_direction,omitempty"`
	SpecificIndicators []DriftIndicator `json:"specific_indicators,omitempty"`
}

// DriftAlert is one drift detection finding. Every field is optional; the
// drift event emitted for an alert only carries the attributes that were
// present.
type DriftAlert struct {
	AlertType          *string        `json:"alert_type,omitempty"`
	AgentID            *string        `json:"agent_id,omitempty"`
	CardID             *string        `json:"card_id,omitempty"`
	DetectionTimestamp *string        `json:"detection_timestamp,omitempty"`
	Analysis           *DriftAnalysis `json:"analysis,omitempty"`
	Recommendation     *string        `json:"recommendation,omitempty"`
	TraceIDs           []string       `json:"trace_ids,omitempty"`
}
