package outbox

import (
	"context"
	"encoding/json"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/md-rashed-zaman/slotbook/libs/kafkax"
	otelx "github.com/md-rashed-zaman/slotbook/libs/otel"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

func TestFromDomain(t *testing.T) {
	c, err := domain.CreateCustomer("Eve", "eve@example.com", "")
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	evt := c.DomainEvents()[0]
	env, err := FromDomain(evt)
	if err != nil {
		t.Fatalf("FromDomain: %v", err)
	}
	if env.EventType != domain.EventCustomerCreated || env.AggregateType != domain.AggregateCustomer {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.AggregateID != c.ID().String() || env.EventID != evt.EventID().String() {
		t.Fatalf("ids not carried: %+v", env)
	}
	var payload map[string]any
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if payload["email"] != "eve@example.com" {
		t.Fatalf("unexpected payload %s", env.Payload)
	}
}

func TestRecordMessage(t *testing.T) {
	r := Record{
		ID:          7,
		EventID:     "0191e6a0-0000-7000-8000-000000000001",
		AggregateID: "0191e6a0-0000-7000-8000-0000000000aa",
		EventType:   domain.EventBookingCreated,
		Payload:     []byte(`{"booking_number":"BK-1"}`),
	}
	msg := recordMessage(context.Background(), r)
	if msg.Topic != domain.EventBookingCreated {
		t.Fatalf("topic should be the event type, got %s", msg.Topic)
	}
	if string(msg.Key) != r.AggregateID {
		t.Fatalf("key should be the aggregate id, got %s", msg.Key)
	}
	if kafkax.HeaderValue(msg.Headers, kafkax.HeaderEventID) != r.EventID {
		t.Fatalf("missing event id header: %v", msg.Headers)
	}
}

func TestRecordMessageRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	r := Record{
		ID:          8,
		EventID:     "0191e6a0-0000-7000-8000-000000000002",
		AggregateID: "0191e6a0-0000-7000-8000-0000000000bb",
		EventType:   domain.EventBookingCancelled,
		Payload:     []byte(`{}`),
		Trace:       otelx.TraceContext{Parent: "00-0102030405060708090a0b0c0d0e0f10-0102030405060708-01"},
	}
	msg := recordMessage(context.Background(), r)

	meta := kafkax.ExtractEventMeta(msg)
	if meta.EventID != r.EventID || meta.EventType != r.EventType || meta.AggregateID != r.AggregateID {
		t.Fatalf("consumer would read %+v", meta)
	}
	sc := trace.SpanContextFromContext(kafkax.ExtractTraceContext(context.Background(), msg))
	if sc.TraceID().String() != "0102030405060708090a0b0c0d0e0f10" {
		t.Fatalf("trace context not carried, got %s", sc.TraceID())
	}
}
