package outbox

import (
	"encoding/json"
	"fmt"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

// Event is the envelope written to the outbox table.
// The Kafka topic name equals EventType (one topic per event).
type Event struct {
	EventID       string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// FromDomain serialises a domain event into its outbox envelope.
func FromDomain(evt domain.Event) (Event, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s: %w", evt.EventName(), err)
	}
	return Event{
		EventID:       evt.EventID().String(),
		AggregateType: evt.AggregateType(),
		AggregateID:   evt.AggregateID().String(),
		EventType:     evt.EventName(),
		Payload:       payload,
	}, nil
}
