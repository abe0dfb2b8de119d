package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/md-rashed-zaman/slotbook/libs/db"
	"github.com/md-rashed-zaman/slotbook/libs/kafkax"
)

// MessageWriter is the part of *kafka.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher relays committed outbox rows to Kafka. Rows are marked
// published only after the broker accepted them, so delivery is
// at-least-once and consumers dedupe on the event_id header.
type Publisher struct {
	pool      *db.Pool
	repo      *Repository
	logger    *slog.Logger
	brokers   []string
	pollEvery time.Duration
	batchSize int
	newWriter func(brokers []string) MessageWriter
}

type PublisherConfig struct {
	Brokers   string
	PollEvery time.Duration
	BatchSize int
}

func NewPublisher(pool *db.Pool, repo *Repository, logger *slog.Logger, cfg PublisherConfig) *Publisher {
	brokers := kafkax.SplitBrokers(cfg.Brokers)
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Publisher{
		pool:      pool,
		repo:      repo,
		logger:    logger,
		brokers:   brokers,
		pollEvery: cfg.PollEvery,
		batchSize: cfg.BatchSize,
		newWriter: func(brokers []string) MessageWriter { return kafkax.NewWriter(brokers) },
	}
}

func (p *Publisher) Run(ctx context.Context) {
	if len(p.brokers) == 0 {
		p.logger.Warn("outbox publisher disabled (no kafka brokers configured)")
		return
	}

	writer := p.newWriter(p.brokers)
	defer writer.Close()

	ticker := time.NewTicker(p.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.publishBatch(ctx, writer)
			if err != nil {
				p.logger.Error("outbox publish failed", "err", err)
				continue
			}
			if n > 0 {
				p.logger.Debug("outbox batch published", "count", n)
			}
		}
	}
}

func (p *Publisher) publishBatch(ctx context.Context, writer MessageWriter) (int, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	records, err := p.repo.FetchUnpublished(ctx, tx, p.batchSize)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, tx.Commit(ctx)
	}

	msgs := make([]kafka.Message, 0, len(records))
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		msgs = append(msgs, recordMessage(ctx, r))
		ids = append(ids, r.ID)
	}
	if err := writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, err
	}
	if err := p.repo.MarkPublished(ctx, tx, ids); err != nil {
		return 0, err
	}
	return len(records), tx.Commit(ctx)
}

// ReadyCheck fails when more than maxBacklog rows are waiting, which
// usually means the broker is unreachable.
func (p *Publisher) ReadyCheck(maxBacklog int64) func(context.Context) error {
	return func(ctx context.Context) error {
		n, err := p.repo.Backlog(ctx, p.pool)
		if err != nil {
			return err
		}
		if n > maxBacklog {
			return fmt.Errorf("outbox backlog %d exceeds %d", n, maxBacklog)
		}
		return nil
	}
}

// recordMessage builds the Kafka message for a row, restoring the trace
// context captured when the row was written.
func recordMessage(ctx context.Context, r Record) kafka.Message {
	msgCtx := r.Trace.Into(ctx)
	msg := kafkax.NewEventMessage(kafkax.EventMeta{
		EventID:     r.EventID,
		EventType:   r.EventType,
		AggregateID: r.AggregateID,
	}, r.Payload)
	msg.Headers = kafkax.InjectTraceHeaders(msgCtx, msg.Headers)
	return msg
}
