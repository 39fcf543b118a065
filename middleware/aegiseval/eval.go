// Package aegiseval instruments evaluation call targets so their results are
// recorded as spans and metrics without touching the call sites.
//
// Two styles are supported. WrapCheck and WrapVerify decorate a function
// explicitly. The Instrumentor swaps registered package-level function
// variables for wrapped versions in place, the way engines expose their
// check/verify entry points as reassignable vars:
//
//	var CheckIntegrity = func(ctx context.Context, req CheckRequest) (*aegis.IntegritySignal, error) { ... }
//
//	inst := aegiseval.NewInstrumentor(aegiseval.WithRecorder(rec))
//	aegiseval.RegisterCheckTarget(inst, &CheckIntegrity)
//	if err := inst.Instrument(); err != nil { ... }
//	defer inst.Uninstrument()
//
// Wrappers never alter results: the original value and error pass through
// unmodified, and nothing is recorded when the call errors or returns nil.
package aegiseval

import (
	"context"
	"errors"
	"sync"

	"github.com/coherencelabs/aegis"
)

var (
	// ErrNoTargets is returned by Instrument when no call target was
	// registered.
	ErrNoTargets = errors.New("aegiseval: no targets registered")

	// ErrAlreadyInstrumented is returned by Instrument when targets are
	// already wrapped. Call Uninstrument first.
	ErrAlreadyInstrumented = errors.New("aegiseval: already instrumented")
)

// CheckFunc is the shape of an integrity check call target.
type CheckFunc[Req any] func(ctx context.Context, req Req) (*aegis.IntegritySignal, error)

// VerifyFunc is the shape of a trace verification call target.
type VerifyFunc[Req any] func(ctx context.Context, req Req) (*aegis.VerificationResult, error)

// WrapCheck returns fn with recording attached. The wrapper calls fn and, when
// fn returns a non-nil signal and no error, records it through rec. fn's
// result and error are returned unmodified either way.
func WrapCheck[Req any](rec *aegis.Recorder, fn CheckFunc[Req]) CheckFunc[Req] {
	if rec == nil {
		rec = aegis.NewRecorder()
	}
	return func(ctx context.Context, req Req) (*aegis.IntegritySignal, error) {
		signal, err := fn(ctx, req)
		if err == nil && signal != nil {
			rec.RecordIntegrityCheck(ctx, signal)
		}
		return signal, err
	}
}

// WrapVerify returns fn with recording attached, mirroring WrapCheck for
// verification targets.
func WrapVerify[Req any](rec *aegis.Recorder, fn VerifyFunc[Req]) VerifyFunc[Req] {
	if rec == nil {
		rec = aegis.NewRecorder()
	}
	return func(ctx context.Context, req Req) (*aegis.VerificationResult, error) {
		result, err := fn(ctx, req)
		if err == nil && result != nil {
			rec.RecordVerification(ctx, result)
		}
		return result, err
	}
}

// registration wraps one target, returning its restore func, or false when
// the target is unresolvable (a nil pointer or a nil function value).
type registration func(rec *aegis.Recorder) (restore func(), ok bool)

// Instrumentor swaps registered call targets for recording wrappers and
// restores them on demand. Instrument and Uninstrument are safe for
// concurrent use; the targets themselves must not be reassigned elsewhere
// while instrumented.
type Instrumentor struct {
	mu           sync.Mutex
	recorder     *aegis.Recorder
	targets      []registration
	restores     []func()
	instrumented bool
}

// Option configures an Instrumentor.
type Option func(*Instrumentor)

// WithRecorder sets the recorder wrappers record through. When unset, a
// default recorder against the global tracer provider is built at the first
// Instrument call.
func WithRecorder(rec *aegis.Recorder) Option {
	return func(i *Instrumentor) {
		if rec != nil {
			i.recorder = rec
		}
	}
}

// NewInstrumentor builds an Instrumentor with no targets registered.
func NewInstrumentor(opts ...Option) *Instrumentor {
	i := &Instrumentor{}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// RegisterCheckTarget registers the integrity check function variable at
// target for interception. Registration alone changes nothing; the swap
// happens at Instrument.
func RegisterCheckTarget[Req any](i *Instrumentor, target *CheckFunc[Req]) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.targets = append(i.targets, func(rec *aegis.Recorder) (func(), bool) {
		if target == nil || *target == nil {
			return nil, false
		}
		orig := *target
		*target = WrapCheck(rec, orig)
		return func() { *target = orig }, true
	})
}

// RegisterVerifyTarget registers the verification function variable at target
// for interception.
func RegisterVerifyTarget[Req any](i *Instrumentor, target *VerifyFunc[Req]) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.targets = append(i.targets, func(rec *aegis.Recorder) (func(), bool) {
		if target == nil || *target == nil {
			return nil, false
		}
		orig := *target
		*target = WrapVerify(rec, orig)
		return func() { *target = orig }, true
	})
}

// Instrument swaps every registered target for its wrapper. Targets holding a
// nil function are skipped independently; a skipped target is not an error.
// Returns ErrNoTargets when nothing is registered and ErrAlreadyInstrumented
// on a second call without an intervening Uninstrument.
func (i *Instrumentor) Instrument() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.instrumented {
		return ErrAlreadyInstrumented
	}
	if len(i.targets) == 0 {
		return ErrNoTargets
	}
	if i.recorder == nil {
		i.recorder = aegis.NewRecorder()
	}
	for _, wrap := range i.targets {
		if restore, ok := wrap(i.recorder); ok {
			i.restores = append(i.restores, restore)
		}
	}
	i.instrumented = true
	return nil
}

// Uninstrument restores every wrapped target to its original function.
// Registrations survive, so Instrument may be called again. Calling
// Uninstrument while not instrumented is a no-op.
func (i *Instrumentor) Uninstrument() {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, restore := range i.restores {
		restore()
	}
	i.restores = nil
	i.instrumented = false
}
