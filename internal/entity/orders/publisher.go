package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cgund98/go-order-pipeline/internal/infra/eventsrc"
)

// Publisher is the interface stages use to emit follow-up events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *OrderEvent) error
}

// EventPublisher serializes order events and publishes them keyed by the
// order's customer id, so every event for a given customer lands on the same
// partition and is processed in publish order.
type EventPublisher struct {
	bus eventsrc.Bus
}

func NewEventPublisher(bus eventsrc.Bus) *EventPublisher {
	return &EventPublisher{bus: bus}
}

func (p *EventPublisher) Publish(ctx context.Context, topic string, event *OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	return p.bus.Publish(ctx, &eventsrc.PublishArgs{
		Topic: topic,
		Key:   []byte(event.Payload.CustomerID),
		Value: value,
	})
}
