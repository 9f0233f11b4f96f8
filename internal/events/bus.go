package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// ErrUnknownTopic rejects topics that are not declared in this package.
var ErrUnknownTopic = errors.New("events: unknown topic")

// EventStore persists events in the domain_events table.
type EventStore interface {
	InsertDomainEvent(ctx context.Context, arg dbgen.InsertDomainEventParams) (dbgen.DomainEvent, error)
}

// Publisher forwards a stored event to the event stream.
type Publisher interface {
	Publish(ctx context.Context, event dbgen.DomainEvent) error
}

// Notifier reacts to a stored event, e.g. by queueing a push or mailing support staff.
type Notifier interface {
	Notify(ctx context.Context, event dbgen.DomainEvent) error
}

// Bus stores order, payment and support events, then hands each one to the stream and to every
// notifier. Once stored an event is never lost: delivery failures are returned joined, after
// every handler has had its turn.
type Bus struct {
	Store     EventStore
	Publisher Publisher
	Notifiers []Notifier
}

func (b *Bus) Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error) {
	if b == nil || b.Store == nil {
		return dbgen.DomainEvent{}, errors.New("events: store not configured")
	}
	if !slices.Contains(DefaultTopics(), topic) {
		return dbgen.DomainEvent{}, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
	if !aggregateID.Valid {
		return dbgen.DomainEvent{}, fmt.Errorf("events: %s without aggregate id", topic)
	}
	body, err := marshalPayload(payload)
	if err != nil {
		return dbgen.DomainEvent{}, fmt.Errorf("events: %s payload: %w", topic, err)
	}
	ev, err := b.Store.InsertDomainEvent(ctx, dbgen.InsertDomainEventParams{
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     body,
	})
	if err != nil {
		return dbgen.DomainEvent{}, fmt.Errorf("events: store %s: %w", topic, err)
	}

	var errs []error
	if b.Publisher != nil {
		if err := b.Publisher.Publish(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", topic, err))
		}
	}
	for _, n := range b.Notifiers {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("notify %s: %w", topic, err))
		}
	}
	return ev, errors.Join(errs...)
}

// marshalPayload stores nil as {} and passes raw JSON through after checking it.
func marshalPayload(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case nil:
		return []byte("{}"), nil
	case json.RawMessage:
		if !json.Valid(v) {
			return nil, errors.New("invalid json")
		}
		return slices.Clone(v), nil
	default:
		return json.Marshal(v)
	}
}
