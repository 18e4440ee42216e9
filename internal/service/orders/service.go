package orders

import (
	"context"
	"fmt"

	entity "github.com/cgund98/go-order-pipeline/internal/entity/orders"
	"github.com/cgund98/go-order-pipeline/internal/infra/logging"
	"github.com/cgund98/go-order-pipeline/internal/infra/retry"
)

// Service is the intake end of the pipeline. It turns accepted orders into
// ORDER_CREATED events on the new-orders topic.
type Service struct {
	publisher entity.Publisher
	retry     retry.Config
	topic     string
}

func NewService(publisher entity.Publisher, retryCfg retry.Config, newOrdersTopic string) *Service {
	return &Service{publisher: publisher, retry: retryCfg, topic: newOrdersTopic}
}

// CreateOrder publishes the order's ORDER_CREATED event keyed by customer id
// and returns the event envelope. The publish is retried with backoff before
// the failure is surfaced to the caller.
func (s *Service) CreateOrder(ctx context.Context, order entity.Order) (*entity.OrderEvent, error) {
	logging.Logger.Info("Creating order", "orderId", order.ID, "customerId", order.CustomerID)

	order.Status = entity.OrderStatusCreated
	event := entity.NewOrderEvent(order.ID, entity.EventTypeOrderCreated, order)

	err := retry.Do(ctx, s.retry, func() error {
		return s.publisher.Publish(ctx, s.topic, event)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send order event: %w", err)
	}

	logging.Logger.Info("Order event sent", "orderId", order.ID, "eventId", event.EventID)

	return event, nil
}

// UpdateOrderStatus is an out-of-band escape hatch that bypasses the event
// pipeline. It is not part of the event-sourced state and only records the
// request.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status string) {
	logging.Logger.Info("Updating order status", "orderId", orderID, "status", status)
}
