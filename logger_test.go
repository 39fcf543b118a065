package aegis

import (
	"context"
	"strings"
	"testing"
)

func TestNew_Default(t *testing.T) {
	ctx := context.Background()
	logger := newZapLogger(Default())
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	defer func() { _ = logger.Sync() }()

	// Should not panic
	logger.Info(ctx, "test message", F("key", "value"))
}

func TestNew_Development(t *testing.T) {
	ctx := context.Background()
	logger := newZapLogger(Development())
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
}

func TestLogger_With(t *testing.T) {
	ctx := context.Background()
	logger := newZapLogger(Default())
	defer func() { _ = logger.Sync() }()

	childLogger := logger.With(F("component", "test"))
	if childLogger == nil {
		t.Fatal("expected non-nil child logger")
	}

	// Should not panic
	childLogger.Info(ctx, "child message")
}

func TestLogger_Named(t *testing.T) {
	ctx := context.Background()
	logger := newZapLogger(Default())
	defer func() { _ = logger.Sync() }()

	namedLogger := logger.Named("my-component")
	if namedLogger == nil {
		t.Fatal("expected non-nil named logger")
	}

	// Should not panic
	namedLogger.Info(ctx, "named message")
}

func TestLogger_ContextExtraction(t *testing.T) {
	logger := newZapLogger(Default())
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	ctx = WithAgentID(ctx, "agent-7")
	ctx = WithSessionID(ctx, "session-42")
	ctx = WithTraceID(ctx, "trace-abc")

	// Context is passed directly to log methods
	// Should not panic and should extract trace fields
	logger.Info(ctx, "context message")
}

func TestLogger_AllLevels(t *testing.T) {
	ctx := context.Background()
	logger := newZapLogger(Development())
	defer func() { _ = logger.Sync() }()

	logger.Debug(ctx, "debug", F("level", "debug"))
	logger.Info(ctx, "info", F("level", "info"))
	logger.Warn(ctx, "warn", F("level", "warn"))
	logger.Error(ctx, "error", nil, F("level", "error"))
}

func TestLogger_Error_WithError(t *testing.T) {
	ctx := context.Background()
	logger := newZapLogger(Default())
	defer func() { _ = logger.Sync() }()

	testErr := &testError{msg: "test error"}
	logger.Error(ctx, "operation failed", testErr, F("op", "test"))
}

func TestLogger_Critical_DoesNotExit(t *testing.T) {
	ctx := context.Background()
	logger := newZapLogger(Default())
	defer func() { _ = logger.Sync() }()

	logger.Critical(ctx, "fatal condition", &testError{msg: "boom"})

	// Reaching this line proves Critical logged without exiting the process.
	logger.Info(ctx, "still alive")
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestLogger_SetLevel(t *testing.T) {
	logger := newZapLogger(Default())
	defer func() { _ = logger.Sync() }()

	// Initial level is "info"
	if got := logger.GetLevel(); got != "info" {
		t.Errorf("expected initial level 'info', got '%s'", got)
	}

	// Change to debug
	logger.SetLevel("debug")
	if got := logger.GetLevel(); got != "debug" {
		t.Errorf("expected level 'debug', got '%s'", got)
	}

	// Change to error
	logger.SetLevel("error")
	if got := logger.GetLevel(); got != "error" {
		t.Errorf("expected level 'error', got '%s'", got)
	}
}

func TestField_Helpers(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		expected any
	}{
		{"String", F("key", "val"), "val"},
		{"Int", F("key", 123), int64(123)},
		{"Int64", F("key", int64(123)), int64(123)},
		{"Float64", F("key", 12.34), 12.34},
		{"Bool", F("key", true), int64(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			switch tt.field.Type {
			case StringType:
				if tt.field.StringVal != tt.expected {
					t.Errorf("expected %v, got %v", tt.expected, tt.field.StringVal)
				}
			case Int64Type:
				if tt.field.Integer != tt.expected {
					t.Errorf("expected %v, got %v", tt.expected, tt.field.Integer)
				}
			case Float64Type:
				if tt.field.Float != tt.expected {
					t.Errorf("expected %v, got %v", tt.expected, tt.field.Float)
				}
			case BoolType:
				if tt.field.Integer != tt.expected {
					t.Errorf("expected %v, got %v", tt.expected, tt.field.Integer)
				}
			default:
				if tt.field.Interface != tt.expected {
					t.Errorf("expected %v, got %v", tt.expected, tt.field.Interface)
				}
			}
		})
	}
}

func TestField_Err(t *testing.T) {
	err := &testError{msg: "boom"}
	field := Err(err)
	if field.Key != "error" {
		t.Errorf("expected key 'error', got '%s'", field.Key)
	}
	if field.Type != ErrorType {
		t.Errorf("expected ErrorType, got %v", field.Type)
	}

	// nil errors degrade to a nil Any field instead of panicking
	nilField := Err(nil)
	if nilField.Type != AnyType || nilField.Interface != nil {
		t.Errorf("expected nil AnyType field, got %+v", nilField)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	ctx = WithAgentID(ctx, "agent-7")
	if got := AgentIDFromContext(ctx); got != "agent-7" {
		t.Errorf("expected agent ID 'agent-7', got '%s'", got)
	}

	ctx = WithSessionID(ctx, "session-42")
	if got := SessionIDFromContext(ctx); got != "session-42" {
		t.Errorf("expected session ID 'session-42', got '%s'", got)
	}
}

func TestExtractContextZapFields(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "trace-abc")
	ctx = WithAgentID(ctx, "agent-7")

	fields := extractContextZapFields(ctx)

	keys := make(map[string]string, len(fields))
	for _, f := range fields {
		keys[f.Key] = f.String
	}
	if keys["trace_id"] != "trace-abc" {
		t.Errorf("trace_id = %q, want %q", keys["trace_id"], "trace-abc")
	}
	if keys["agent_id"] != "agent-7" {
		t.Errorf("agent_id = %q, want %q", keys["agent_id"], "agent-7")
	}

	// Background contexts short-circuit to nil
	if got := extractContextZapFields(context.Background()); got != nil {
		t.Errorf("expected nil fields for empty context, got %v", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "debug"},
		{"DEBUG", "debug"},
		{"info", "info"},
		{"INFO", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"ERROR", "error"},
		{"invalid", "info"}, // defaults to info
		{"", "info"},        // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level := parseLevel(tt.input)
			got := strings.ToLower(level.String())
			if got != tt.want {
				t.Errorf("parseLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func ExampleLogger() {
	ctx := context.Background()

	// 1. Initialize the logger
	logger := newZapLogger(Development())
	defer func() { _ = logger.Sync() }()

	// 2. Log a simple message (context-first)
	logger.Info(ctx, "Hello, World!")

	// 3. Log with structured fields
	logger.Info(ctx, "checkpoint evaluated",
		F("checkpoint_id", "ic-2024-0042"),
		F("verdict", "clear"),
	)
}

func ExampleLogger_contextIntegration() {
	// Initialize logger
	logger := newZapLogger(Default())
	defer func() { _ = logger.Sync() }()

	// Create a context (in a real app, this comes from the request)
	ctx := context.Background()
	ctx = WithAgentID(ctx, "agent-7")

	// Context is ALWAYS the first parameter
	// Trace IDs are extracted automatically
	logger.Info(ctx, "Processing evaluation")
}
