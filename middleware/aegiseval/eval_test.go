package aegiseval

import (
	"context"
	"errors"
	"testing"

	"github.com/coherencelabs/aegis"
	"github.com/coherencelabs/aegis/semconv"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestRecorder(t *testing.T) (*tracetest.SpanRecorder, *aegis.Recorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, aegis.NewRecorder(aegis.WithTracerProvider(tp))
}

func TestWrapCheck_RecordsOnSuccess(t *testing.T) {
	ctx := context.Background()
	sr, rec := newTestRecorder(t)

	want := &aegis.IntegritySignal{
		Checkpoint: &aegis.Checkpoint{Verdict: aegis.Ptr("clear")},
	}
	wrapped := WrapCheck(rec, func(ctx context.Context, req string) (*aegis.IntegritySignal, error) {
		return want, nil
	})

	got, err := wrapped(ctx, "req-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Error("wrapper did not pass the signal through unmodified")
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != semconv.SpanAIPIntegrityCheck {
		t.Errorf("span name = %q, want %q", spans[0].Name(), semconv.SpanAIPIntegrityCheck)
	}
}

func TestWrapCheck_SkipsOnError(t *testing.T) {
	ctx := context.Background()
	sr, rec := newTestRecorder(t)

	wantErr := errors.New("engine unavailable")
	wrapped := WrapCheck(rec, func(ctx context.Context, req string) (*aegis.IntegritySignal, error) {
		return nil, wantErr
	})

	_, err := wrapped(ctx, "req-1")
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
	if got := len(sr.Ended()); got != 0 {
		t.Errorf("expected no spans on error, got %d", got)
	}
}

func TestWrapCheck_SkipsOnNilSignal(t *testing.T) {
	ctx := context.Background()
	sr, rec := newTestRecorder(t)

	wrapped := WrapCheck(rec, func(ctx context.Context, req string) (*aegis.IntegritySignal, error) {
		return nil, nil
	})

	if _, err := wrapped(ctx, "req-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(sr.Ended()); got != 0 {
		t.Errorf("expected no spans for a nil signal, got %d", got)
	}
}

func TestWrapCheck_NilRecorder(t *testing.T) {
	ctx := context.Background()

	// A nil recorder falls back to a default; the call must still work.
	wrapped := WrapCheck(nil, func(ctx context.Context, req string) (*aegis.IntegritySignal, error) {
		return &aegis.IntegritySignal{}, nil
	})
	if _, err := wrapped(ctx, "req-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWrapVerify_RecordsOnSuccess(t *testing.T) {
	ctx := context.Background()
	sr, rec := newTestRecorder(t)

	wrapped := WrapVerify(rec, func(ctx context.Context, req int) (*aegis.VerificationResult, error) {
		return &aegis.VerificationResult{Verified: aegis.Ptr(true)}, nil
	})

	if _, err := wrapped(ctx, 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != semconv.SpanAAPVerifyTrace {
		t.Errorf("span name = %q, want %q", spans[0].Name(), semconv.SpanAAPVerifyTrace)
	}
}

func TestInstrumentor_SwapAndRestore(t *testing.T) {
	ctx := context.Background()
	sr, rec := newTestRecorder(t)

	calls := 0
	check := CheckFunc[string](func(ctx context.Context, req string) (*aegis.IntegritySignal, error) {
		calls++
		return &aegis.IntegritySignal{}, nil
	})

	inst := NewInstrumentor(WithRecorder(rec))
	RegisterCheckTarget(inst, &check)

	if err := inst.Instrument(); err != nil {
		t.Fatalf("Instrument() error: %v", err)
	}

	// Instrumented: the call goes through and records a span.
	if _, err := check(ctx, "req-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if got := len(sr.Ended()); got != 1 {
		t.Fatalf("expected 1 span while instrumented, got %d", got)
	}

	inst.Uninstrument()

	// Restored: the call still goes through but records nothing.
	if _, err := check(ctx, "req-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if got := len(sr.Ended()); got != 1 {
		t.Errorf("expected no new spans after Uninstrument, got %d", got)
	}
}

func TestInstrumentor_NoTargets(t *testing.T) {
	inst := NewInstrumentor()
	if err := inst.Instrument(); !errors.Is(err, ErrNoTargets) {
		t.Errorf("Instrument() = %v, want ErrNoTargets", err)
	}
}

func TestInstrumentor_AlreadyInstrumented(t *testing.T) {
	_, rec := newTestRecorder(t)

	check := CheckFunc[string](func(ctx context.Context, req string) (*aegis.IntegritySignal, error) {
		return &aegis.IntegritySignal{}, nil
	})

	inst := NewInstrumentor(WithRecorder(rec))
	RegisterCheckTarget(inst, &check)

	if err := inst.Instrument(); err != nil {
		t.Fatalf("Instrument() error: %v", err)
	}
	defer inst.Uninstrument()

	if err := inst.Instrument(); !errors.Is(err, ErrAlreadyInstrumented) {
		t.Errorf("second Instrument() = %v, want ErrAlreadyInstrumented", err)
	}
}

func TestInstrumentor_ReinstrumentAfterUninstrument(t *testing.T) {
	ctx := context.Background()
	sr, rec := newTestRecorder(t)

	check := CheckFunc[string](func(ctx context.Context, req string) (*aegis.IntegritySignal, error) {
		return &aegis.IntegritySignal{}, nil
	})

	inst := NewInstrumentor(WithRecorder(rec))
	RegisterCheckTarget(inst, &check)

	if err := inst.Instrument(); err != nil {
		t.Fatalf("first Instrument() error: %v", err)
	}
	inst.Uninstrument()

	// Registrations survive Uninstrument.
	if err := inst.Instrument(); err != nil {
		t.Fatalf("second Instrument() error: %v", err)
	}
	defer inst.Uninstrument()

	if _, err := check(ctx, "req-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(sr.Ended()); got != 1 {
		t.Errorf("expected 1 span after re-instrument, got %d", got)
	}
}

func TestInstrumentor_NilTargetSkipped(t *testing.T) {
	ctx := context.Background()
	sr, rec := newTestRecorder(t)

	var unresolved CheckFunc[string] // engine without this entry point

	verify := VerifyFunc[string](func(ctx context.Context, req string) (*aegis.VerificationResult, error) {
		return &aegis.VerificationResult{}, nil
	})

	inst := NewInstrumentor(WithRecorder(rec))
	RegisterCheckTarget(inst, &unresolved)
	RegisterVerifyTarget(inst, &verify)

	// The nil target is skipped silently; the resolvable one is wrapped.
	if err := inst.Instrument(); err != nil {
		t.Fatalf("Instrument() error: %v", err)
	}
	defer inst.Uninstrument()

	if unresolved != nil {
		t.Error("nil target should stay nil")
	}

	if _, err := verify(ctx, "req-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(sr.Ended()); got != 1 {
		t.Errorf("expected 1 span from the wrapped target, got %d", got)
	}
}

func TestInstrumentor_MixedTargets(t *testing.T) {
	ctx := context.Background()
	sr, rec := newTestRecorder(t)

	check := CheckFunc[string](func(ctx context.Context, req string) (*aegis.IntegritySignal, error) {
		return &aegis.IntegritySignal{}, nil
	})
	verify := VerifyFunc[string](func(ctx context.Context, req string) (*aegis.VerificationResult, error) {
		return &aegis.VerificationResult{}, nil
	})

	inst := NewInstrumentor(WithRecorder(rec))
	RegisterCheckTarget(inst, &check)
	RegisterVerifyTarget(inst, &verify)

	if err := inst.Instrument(); err != nil {
		t.Fatalf("Instrument() error: %v", err)
	}
	defer inst.Uninstrument()

	if _, err := check(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := verify(ctx, "b"); err != nil {
		t.Fatal(err)
	}

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != semconv.SpanAIPIntegrityCheck {
		t.Errorf("first span = %q, want %q", spans[0].Name(), semconv.SpanAIPIntegrityCheck)
	}
	if spans[1].Name() != semconv.SpanAAPVerifyTrace {
		t.Errorf("second span = %q, want %q", spans[1].Name(), semconv.SpanAAPVerifyTrace)
	}
}
