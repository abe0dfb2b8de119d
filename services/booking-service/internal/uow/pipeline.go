package uow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	otelx "github.com/md-rashed-zaman/slotbook/libs/otel"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

// Pipeline runs commands and queries against sessions from a Store.
type Pipeline struct {
	store      Store
	dispatcher *Dispatcher
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

type Option func(*Pipeline)

// WithClock overrides the time used to stamp aggregates.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func NewPipeline(store Store, dispatcher *Dispatcher, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if dispatcher == nil {
		dispatcher = NewDispatcher(logger)
	}
	p := &Pipeline{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		tracer:     otelx.Tracer("uow"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Command runs fn in a read-write session, then saves and publishes.
//
// Events are collected before the save and published only after it
// succeeds, in collection order. A failed save publishes nothing and leaves
// the aggregates' queues untouched. Once the save has committed, publishing
// is detached from ctx so a client disconnect cannot cut it short.
func Command[T any](ctx context.Context, p *Pipeline, name string, fn func(ctx context.Context, s Session) (T, error)) (T, error) {
	var zero T
	ctx, span := p.tracer.Start(ctx, "command "+name, trace.WithAttributes(attribute.String("uow.kind", "command")))
	defer span.End()

	sess, err := p.store.Begin(ctx, ReadWrite)
	if err != nil {
		fail(span, err)
		return zero, err
	}
	defer closeSession(ctx, p.logger, sess)

	result, err := fn(ctx, sess)
	if err != nil {
		fail(span, err)
		return zero, err
	}

	events := sess.CollectDomainEvents()
	if err := ctx.Err(); err != nil {
		fail(span, err)
		return zero, err
	}

	saveCtx, saveSpan := p.tracer.Start(ctx, "uow.save")
	n, err := saveChanges(saveCtx, sess, p.now())
	saveSpan.SetAttributes(attribute.Int("uow.rows", n), attribute.Int("uow.events", len(events)))
	if err != nil {
		fail(saveSpan, err)
		saveSpan.End()
		fail(span, err)
		return zero, &SaveError{Err: err}
	}
	saveSpan.End()

	p.publish(context.WithoutCancel(ctx), name, events)
	sess.ClearDomainEvents()
	return result, nil
}

// Query runs fn in a read-only session. Nothing is saved or published.
func Query[T any](ctx context.Context, p *Pipeline, name string, fn func(ctx context.Context, s Session) (T, error)) (T, error) {
	var zero T
	ctx, span := p.tracer.Start(ctx, "query "+name, trace.WithAttributes(attribute.String("uow.kind", "query")))
	defer span.End()

	sess, err := p.store.Begin(ctx, ReadOnly)
	if err != nil {
		fail(span, err)
		return zero, err
	}
	defer closeSession(ctx, p.logger, sess)

	result, err := fn(ctx, sess)
	if err != nil {
		fail(span, err)
		return zero, err
	}
	return result, nil
}

// stamper is implemented by sessions that want the pipeline's clock.
type stamper interface {
	SetClock(now time.Time)
}

func saveChanges(ctx context.Context, sess Session, now time.Time) (int, error) {
	if st, ok := sess.(stamper); ok {
		st.SetClock(now)
	}
	return sess.SaveChanges(ctx)
}

func (p *Pipeline) publish(ctx context.Context, command string, events []domain.Event) {
	if len(events) == 0 {
		return
	}
	ctx, span := p.tracer.Start(ctx, "uow.publish", trace.WithAttributes(attribute.Int("uow.events", len(events))))
	defer span.End()

	failed := 0
	for _, evt := range events {
		if err := p.dispatcher.Publish(ctx, evt); err != nil {
			failed++
		}
	}
	if failed > 0 {
		span.SetStatus(codes.Error, "event handlers failed")
		p.logger.Warn("committed command had failing event handlers",
			"command", command, "events", len(events), "failed_events", failed)
	}
}

func closeSession(ctx context.Context, logger *slog.Logger, sess Session) {
	if err := sess.Close(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("session close failed", "err", err)
	}
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
