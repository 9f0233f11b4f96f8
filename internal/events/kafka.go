package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the message value written for every event.
type Envelope struct {
	ID          string          `json:"id"`
	Topic       string          `json:"topic"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// KafkaPublisher writes events to Kafka keyed by aggregate so one order's events stay ordered.
type KafkaPublisher struct {
	W           MessageWriter
	TopicPrefix string
}

// NewKafkaPublisher builds a publisher for the given brokers.
func NewKafkaPublisher(brokers []string, prefix string) *KafkaPublisher {
	return &KafkaPublisher{
		W: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		TopicPrefix: prefix,
	}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, event dbgen.DomainEvent) error {
	if p == nil || p.W == nil {
		return nil
	}
	aggregate := common.UUIDString(event.AggregateID)
	value, err := json.Marshal(Envelope{
		ID:          common.UUIDString(event.ID),
		Topic:       event.Topic,
		AggregateID: aggregate,
		OccurredAt:  event.OccurredAt.Time.UTC(),
		Payload:     json.RawMessage(event.Payload),
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return p.W.WriteMessages(ctx, kafka.Message{
		Topic: p.topicName(event.Topic),
		Key:   []byte(aggregate),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-topic", Value: []byte(event.Topic)},
		},
	})
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.W == nil {
		return nil
	}
	return p.W.Close()
}

// topicName maps "order.created" to "<prefix>order-events".
func (p *KafkaPublisher) topicName(topic string) string {
	family, _, _ := strings.Cut(topic, ".")
	return p.TopicPrefix + family + "-events"
}
