package kafkax

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventID     = "event_id"
	HeaderEventType   = "event_type"
	HeaderAggregateID = "aggregate_id"
)

// EventMeta is the metadata every slotbook event carries on the wire.
type EventMeta struct {
	EventID     string
	EventType   string
	AggregateID string
}

// NewEventMessage builds a message whose topic is the event type and whose
// key is the aggregate id, so events of one aggregate stay on one partition.
func NewEventMessage(meta EventMeta, payload []byte) kafka.Message {
	return kafka.Message{
		Topic: meta.EventType,
		Key:   []byte(meta.AggregateID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(meta.EventID)},
			{Key: HeaderEventType, Value: []byte(meta.EventType)},
			{Key: HeaderAggregateID, Value: []byte(meta.AggregateID)},
		},
	}
}

func ExtractEventMeta(msg kafka.Message) EventMeta {
	meta := EventMeta{
		EventID:     HeaderValue(msg.Headers, HeaderEventID),
		EventType:   HeaderValue(msg.Headers, HeaderEventType),
		AggregateID: HeaderValue(msg.Headers, HeaderAggregateID),
	}
	if meta.EventType == "" {
		meta.EventType = msg.Topic
	}
	if meta.AggregateID == "" {
		meta.AggregateID = string(msg.Key)
	}
	return meta
}

func HeaderValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewWriter returns a writer that lets each message pick its own topic.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}
