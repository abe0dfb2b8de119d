package uow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

type HandlerFunc func(ctx context.Context, evt domain.Event) error

type subscription struct {
	name string
	fn   HandlerFunc
}

// Dispatcher fans committed events out to in-process handlers. Handlers run
// sequentially in registration order and each is awaited.
type Dispatcher struct {
	logger *slog.Logger

	mu       sync.RWMutex
	byName   map[string][]subscription
	wildcard []subscription
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger, byName: make(map[string][]subscription)}
}

// Subscribe registers fn for one event name. handler names show up in logs.
func (d *Dispatcher) Subscribe(eventName, handler string, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byName[eventName] = append(d.byName[eventName], subscription{name: handler, fn: fn})
}

// SubscribeAll registers fn for every event.
func (d *Dispatcher) SubscribeAll(handler string, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wildcard = append(d.wildcard, subscription{name: handler, fn: fn})
}

// On registers a handler typed to a concrete event.
func On[E domain.Event](d *Dispatcher, handler string, fn func(ctx context.Context, evt E) error) {
	var zero E
	d.Subscribe(zero.EventName(), handler, func(ctx context.Context, evt domain.Event) error {
		typed, ok := evt.(E)
		if !ok {
			return fmt.Errorf("handler %s: unexpected event type %T", handler, evt)
		}
		return fn(ctx, typed)
	})
}

func (d *Dispatcher) handlersFor(name string) []subscription {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]subscription, 0, len(d.byName[name])+len(d.wildcard))
	out = append(out, d.byName[name]...)
	out = append(out, d.wildcard...)
	return out
}

// Publish delivers evt to every matching handler. A failing handler is
// logged and does not stop the others; the joined failures are returned.
func (d *Dispatcher) Publish(ctx context.Context, evt domain.Event) error {
	var errs []error
	for _, sub := range d.handlersFor(evt.EventName()) {
		if err := d.invoke(ctx, sub, evt); err != nil {
			d.logger.Error("event handler failed",
				"handler", sub.name,
				"event_type", evt.EventName(),
				"event_id", evt.EventID().String(),
				"aggregate_id", evt.AggregateID().String(),
				"err", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", sub.name, err))
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) invoke(ctx context.Context, sub subscription, evt domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return sub.fn(ctx, evt)
}
