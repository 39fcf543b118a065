// This file holds the shared span emitter behind the Record* functions:
// a null-skipping attribute builder plus the start/populate/end sequence
// every evaluation span goes through.
package aegis

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// attrSet accumulates span attributes. The put methods skip nil pointers so
// absent record fields never surface as zero-valued attributes; putCount is
// called only when the source slice is non-nil, which is how an absent list
// omits its count while an empty list reports 0.
type attrSet struct {
	kvs []attribute.KeyValue
}

func (s *attrSet) putString(key attribute.Key, v *string) {
	if v != nil {
		s.kvs = append(s.kvs, key.String(*v))
	}
}

func (s *attrSet) putBool(key attribute.Key, v *bool) {
	if v != nil {
		s.kvs = append(s.kvs, key.Bool(*v))
	}
}

func (s *attrSet) putInt64(key attribute.Key, v *int64) {
	if v != nil {
		s.kvs = append(s.kvs, key.Int64(*v))
	}
}

func (s *attrSet) putFloat64(key attribute.Key, v *float64) {
	if v != nil {
		s.kvs = append(s.kvs, key.Float64(*v))
	}
}

func (s *attrSet) putCount(key attribute.Key, n int) {
	s.kvs = append(s.kvs, key.Int(n))
}

// spanEvent is one event to attach to an emitted span.
type spanEvent struct {
	name  string
	attrs []attribute.KeyValue
}

// emitSpan records one evaluation span: started as an internal child of
// whatever span is active on ctx, populated with attrs and events, marked Ok,
// and ended immediately so the reported duration stays near zero. The ended
// span is returned so callers can read its SpanContext or link to it.
func emitSpan(ctx context.Context, tracer trace.Tracer, name string, attrs []attribute.KeyValue, events []spanEvent) trace.Span {
	_, span := tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	for _, ev := range events {
		span.AddEvent(ev.name, trace.WithAttributes(ev.attrs...))
	}
	span.SetStatus(codes.Ok, "")
	span.End()
	return span
}
