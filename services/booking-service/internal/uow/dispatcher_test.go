package uow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_TypedAndWildcard(t *testing.T) {
	d := NewDispatcher(quietLogger())
	var calls []string
	On(d, "typed", func(ctx context.Context, e domain.ProviderCreated) error {
		calls = append(calls, "typed:"+e.Slug)
		return nil
	})
	d.SubscribeAll("audit", func(ctx context.Context, e domain.Event) error {
		calls = append(calls, "audit:"+e.EventName())
		return nil
	})

	p := mustProvider(t, "typed")
	_ = p.Deactivate()
	for _, e := range p.DomainEvents() {
		if err := d.Publish(context.Background(), e); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	want := []string{"typed:typed", "audit:" + domain.EventProviderCreated, "audit:" + domain.EventProviderDeactivated}
	if len(calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, calls)
		}
	}
}

func TestDispatcher_FailuresDoNotStopOtherHandlers(t *testing.T) {
	d := NewDispatcher(quietLogger())
	boom := errors.New("boom")
	ran := 0
	d.Subscribe(domain.EventProviderCreated, "fails", func(context.Context, domain.Event) error { return boom })
	d.Subscribe(domain.EventProviderCreated, "panics", func(context.Context, domain.Event) error { panic("bad handler") })
	d.Subscribe(domain.EventProviderCreated, "works", func(context.Context, domain.Event) error { ran++; return nil })

	err := d.Publish(context.Background(), mustProvider(t, "x").DomainEvents()[0])
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to include boom, got %v", err)
	}
	if ran != 1 {
		t.Fatalf("later handler should still run, ran=%d", ran)
	}
}
