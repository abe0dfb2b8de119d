package otelx

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceContextRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	if tc := Capture(context.Background()); !tc.IsZero() {
		t.Fatalf("expected zero trace context, got %+v", tc)
	}

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03},
		SpanID:     trace.SpanID{0x0a},
		TraceFlags: trace.FlagsSampled,
	})
	tc := Capture(trace.ContextWithSpanContext(context.Background(), sc))
	if tc.IsZero() {
		t.Fatal("expected traceparent for a valid span")
	}

	got := trace.SpanContextFromContext(tc.Into(context.Background()))
	if got.TraceID() != sc.TraceID() || got.SpanID() != sc.SpanID() || !got.IsRemote() {
		t.Fatalf("trace context lost: %+v", got)
	}
	if ctx := (TraceContext{}).Into(context.Background()); trace.SpanContextFromContext(ctx).IsValid() {
		t.Fatal("zero trace context must leave ctx alone")
	}
}
