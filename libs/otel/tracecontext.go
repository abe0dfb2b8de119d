package otelx

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// TraceContext is a W3C trace context in header form. Outbox rows store it
// so the relay continues the trace of the request that wrote them.
type TraceContext struct {
	Parent string
	State  string
}

// Capture returns the trace context of ctx. It is zero when ctx carries no
// valid span.
func Capture(ctx context.Context) TraceContext {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return TraceContext{Parent: carrier.Get("traceparent"), State: carrier.Get("tracestate")}
}

func (tc TraceContext) IsZero() bool { return tc.Parent == "" }

// Into returns ctx with tc as its remote parent.
func (tc TraceContext) Into(ctx context.Context) context.Context {
	if tc.IsZero() {
		return ctx
	}
	carrier := propagation.MapCarrier{"traceparent": tc.Parent}
	if tc.State != "" {
		carrier["tracestate"] = tc.State
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
