// Package stage implements the per-service processors that move an order
// through the fulfillment pipeline. Each processor consumes batches from its
// input topic, applies a stage-specific outcome to every event in arrival
// order, and emits a follow-up event to a success or dead-letter topic.
package stage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cgund98/go-order-pipeline/internal/entity/orders"
	"github.com/cgund98/go-order-pipeline/internal/infra/logging"
	"github.com/cgund98/go-order-pipeline/internal/infra/retry"
)

// Route describes where a stage outcome sends the order next.
type Route struct {
	Topic     string
	EventType orders.EventType
	Status    orders.OrderStatus
}

// Outcome decides whether the stage's integration succeeded for an order.
// A false result is a domain failure routed to the dead-letter topic, not an
// error; an error is a transient failure eligible for retry.
type Outcome func(ctx context.Context, order *orders.Order) (bool, error)

// Processor is a generic publishing stage. Events in a batch are processed
// sequentially; each one is wrapped in the retry executor. The first event
// that exhausts its retries fails the whole batch, which is then left
// uncommitted and redelivered in full, repeating the side effects of events
// that had already been published.
type Processor struct {
	name      string
	publisher orders.Publisher
	retry     retry.Config
	outcome   Outcome
	success   Route
	failure   Route
}

func (p *Processor) Name() string {
	return p.name
}

func (p *Processor) Consume(ctx context.Context, batch [][]byte) error {
	for _, data := range batch {
		err := retry.Do(ctx, p.retry, func() error {
			return p.processEvent(ctx, data)
		})
		if err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
	}
	return nil
}

func (p *Processor) processEvent(ctx context.Context, data []byte) error {
	var event orders.OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal order event: %w", err)
	}

	logging.Logger.Info("Processing order", "orderId", event.OrderID, "stage", p.name)

	// The payload is a value copy; mutations never leak across stages.
	order := event.Payload

	ok, err := p.outcome(ctx, &order)
	if err != nil {
		return fmt.Errorf("%s outcome for order %s: %w", p.name, order.ID, err)
	}

	route := p.success
	if !ok {
		route = p.failure
		logging.Logger.Warn("Stage outcome failed for order", "orderId", order.ID, "stage", p.name)
	}

	order.Status = route.Status
	next := orders.NewOrderEvent(order.ID, route.EventType, order)

	if err := p.publisher.Publish(ctx, route.Topic, next); err != nil {
		return fmt.Errorf("failed to publish %s event for order %s: %w", route.EventType, order.ID, err)
	}

	logging.Logger.Info("Order processed", "orderId", order.ID, "stage", p.name, "eventType", route.EventType)

	return nil
}
