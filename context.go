package aegis

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// contextKey is an unexported type for context keys defined in this package.
// This prevents collisions with keys defined in other packages.
type contextKey string

// Context keys for storing log-relevant values in context.Context.
// These values are automatically extracted and added to log entries.
const (
	agentIDKey   contextKey = "agent_id"
	sessionIDKey contextKey = "session_id"
	traceIDKey   contextKey = "trace_id"
	spanIDKey    contextKey = "span_id"
)

// WithAgentID adds an agent ID to the context.
// This ID will be automatically included in logs.
func WithAgentID(ctx context.Context, agentID string) context.Context {
	return context.WithValue(ctx, agentIDKey, agentID)
}

// WithSessionID adds a session ID to the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithTraceID adds a trace ID to the context (for non-OTEL scenarios).
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// AgentIDFromContext extracts the agent ID from context.
func AgentIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(agentIDKey).(string); ok {
		return v
	}
	return ""
}

// SessionIDFromContext extracts the session ID from context.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

// extractContextZapFields pulls trace/span IDs and custom values from context.
// Returns zap.Field slice directly for use in log methods (avoids Field conversion).
// Lazily allocates the slice only when fields are found.
func extractContextZapFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}

	var fields []zap.Field

	// Extract OTEL trace context (if available)
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		fields = make([]zap.Field, 0, 4)
		fields = append(fields,
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()),
		)
	} else {
		// Fallback to manual trace ID if set
		if traceID, ok := ctx.Value(traceIDKey).(string); ok && traceID != "" {
			fields = make([]zap.Field, 0, 4)
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if spanID, ok := ctx.Value(spanIDKey).(string); ok && spanID != "" {
			if fields == nil {
				fields = make([]zap.Field, 0, 4)
			}
			fields = append(fields, zap.String("span_id", spanID))
		}
	}

	// Extract agent ID
	if agentID, ok := ctx.Value(agentIDKey).(string); ok && agentID != "" {
		if fields == nil {
			fields = make([]zap.Field, 0, 4)
		}
		fields = append(fields, zap.String("agent_id", agentID))
	}

	// Extract session ID
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok && sessionID != "" {
		if fields == nil {
			fields = make([]zap.Field, 0, 4)
		}
		fields = append(fields, zap.String("session_id", sessionID))
	}

	return fields
}
