// Package fields provides evaluation-domain logging field helpers.
//
// These helpers create structured fields with consistent naming for
// evaluation data like checkpoints, verdicts, scores, and timing.
//
// Usage:
//
//	import "github.com/coherencelabs/aegis/fields"
//
//	logger.Info(ctx, "checkpoint recorded",
//	    fields.CheckpointID("ic-9f2"),
//	    fields.Verdict("clear"),
//	    fields.DurationMs(450.5),
//	)
package fields

import "github.com/coherencelabs/aegis"

// --- Identity Fields ---

// AgentID creates an agent ID field.
func AgentID(id string) aegis.Field {
	return aegis.String("agent_id", id)
}

// SessionID creates a session ID field.
func SessionID(id string) aegis.Field {
	return aegis.String("session_id", id)
}

// CardID creates an agent card ID field.
func CardID(id string) aegis.Field {
	return aegis.String("card_id", id)
}

// CheckpointID creates an integrity checkpoint ID field.
func CheckpointID(id string) aegis.Field {
	return aegis.String("checkpoint_id", id)
}

// TraceID creates an evaluation trace ID field.
func TraceID(id string) aegis.Field {
	return aegis.String("trace_id", id)
}

// --- Verdict Fields ---

// Verdict creates a checkpoint verdict field.
func Verdict(v string) aegis.Field {
	return aegis.String("verdict", v)
}

// Proceed creates a proceed recommendation field.
func Proceed(ok bool) aegis.Field {
	return aegis.Bool("proceed", ok)
}

// RecommendedAction creates a recommended action field.
func RecommendedAction(action string) aegis.Field {
	return aegis.String("recommended_action", action)
}

// Verified creates a verification outcome field.
func Verified(ok bool) aegis.Field {
	return aegis.Bool("verified", ok)
}

// --- Score Fields ---

// IntegrityRatio creates a window integrity ratio field.
func IntegrityRatio(r float64) aegis.Field {
	return aegis.Float64("integrity_ratio", r)
}

// CoherenceScore creates a coherence score field.
func CoherenceScore(s float64) aegis.Field {
	return aegis.Float64("coherence_score", s)
}

// SimilarityScore creates a similarity score field.
func SimilarityScore(s float64) aegis.Field {
	return aegis.Float64("similarity_score", s)
}

// Score creates a generic score field.
func Score(s float64) aegis.Field {
	return aegis.Float64("score", s)
}

// Confidence creates an extraction confidence field.
func Confidence(c float64) aegis.Field {
	return aegis.Float64("confidence", c)
}

// --- Drift Fields ---

// DriftDirection creates a drift direction field.
func DriftDirection(dir string) aegis.Field {
	return aegis.String("drift_direction", dir)
}

// AlertType creates a drift alert type field.
func AlertType(t string) aegis.Field {
	return aegis.String("alert_type", t)
}

// TracesAnalyzed creates a traces analyzed count field.
func TracesAnalyzed(n int) aegis.Field {
	return aegis.Int("traces_analyzed", n)
}

// --- Analysis Fields ---

// Model creates an analysis model field.
func Model(name string) aegis.Field {
	return aegis.String("model", name)
}

// Concerns creates a concern count field.
func Concerns(n int) aegis.Field {
	return aegis.Int("concerns_count", n)
}

// Violations creates a violation count field.
func Violations(n int) aegis.Field {
	return aegis.Int("violations_count", n)
}

// ThinkingTokens creates a thinking token count field.
func ThinkingTokens(n int64) aegis.Field {
	return aegis.Int64("thinking_tokens", n)
}

// --- Timing Fields ---

// LatencyMs creates a latency field in milliseconds.
func LatencyMs(ms float64) aegis.Field {
	return aegis.Float64("latency_ms", ms)
}

// DurationMs creates a duration field in milliseconds.
func DurationMs(ms float64) aegis.Field {
	return aegis.Float64("duration_ms", ms)
}

// DurationSec creates a duration field in seconds.
func DurationSec(sec float64) aegis.Field {
	return aegis.Float64("duration_sec", sec)
}

// --- Count/Size Fields ---

// Count creates a generic count field.
func Count(n int) aegis.Field {
	return aegis.Int("count", n)
}

// Size creates a size field in bytes.
func Size(bytes int64) aegis.Field {
	return aegis.Int64("size_bytes", bytes)
}

// Total creates a total count field.
func Total(n int) aegis.Field {
	return aegis.Int("total", n)
}

// WindowSize creates an evaluation window size field.
func WindowSize(n int) aegis.Field {
	return aegis.Int("window_size", n)
}

// --- Component Fields ---

// Component creates a component name field.
func Component(name string) aegis.Field {
	return aegis.String("component", name)
}

// Operation creates an operation name field.
func Operation(op string) aegis.Field {
	return aegis.String("operation", op)
}

// Method creates a method name field (gRPC/HTTP).
func Method(method string) aegis.Field {
	return aegis.String("method", method)
}

// --- Connection Fields ---

// Host creates a host field.
func Host(host string) aegis.Field {
	return aegis.String("host", host)
}

// Port creates a port field.
func Port(port int) aegis.Field {
	return aegis.Int("port", port)
}

// RemoteAddr creates a remote address field.
func RemoteAddr(addr string) aegis.Field {
	return aegis.String("remote_addr", addr)
}

// Endpoint creates a collector endpoint field.
func Endpoint(ep string) aegis.Field {
	return aegis.String("endpoint", ep)
}

// --- Status Fields ---

// Success creates a success boolean field.
func Success(ok bool) aegis.Field {
	return aegis.Bool("success", ok)
}

// Enabled creates an enabled boolean field.
func Enabled(on bool) aegis.Field {
	return aegis.Bool("enabled", on)
}

// Reason creates a reason field (for failures/decisions).
func Reason(r string) aegis.Field {
	return aegis.String("reason", r)
}

// Severity creates a severity field.
func Severity(s string) aegis.Field {
	return aegis.String("severity", s)
}

// Category creates a category field.
func Category(c string) aegis.Field {
	return aegis.String("category", c)
}

// --- Error Fields ---

// ErrorMsg creates an error message field for non-fatal error logging.
// Use this when logging at Warn level where the error parameter isn't available.
// For Error level, prefer using the error parameter: log.Error(ctx, msg, err, ...)
func ErrorMsg(err error) aegis.Field {
	if err == nil {
		return aegis.String("error", "")
	}
	return aegis.String("error", err.Error())
}
