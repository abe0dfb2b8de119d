package app

import (
	"context"
	"log/slog"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

// RegisterAudit logs every committed domain event.
func RegisterAudit(d *uow.Dispatcher, logger *slog.Logger) {
	d.SubscribeAll("audit-log", func(ctx context.Context, evt domain.Event) error {
		logger.InfoContext(ctx, "domain event",
			"event_type", evt.EventName(),
			"event_id", evt.EventID().String(),
			"aggregate_type", evt.AggregateType(),
			"aggregate_id", evt.AggregateID().String(),
			"occurred_at", evt.OccurredOn(),
		)
		return nil
	})
}
