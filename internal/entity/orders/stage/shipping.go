package stage

import (
	"context"
	"math/rand"
	"time"

	"github.com/cgund98/go-order-pipeline/internal/entity/orders"
	"github.com/cgund98/go-order-pipeline/internal/infra/logging"
	"github.com/cgund98/go-order-pipeline/internal/infra/retry"
)

const ProcessorNameShipping = "shipping-processor"

// CarrierService hands an order off to a carrier. A false result means the
// shipment could not be arranged and the order is cancelled.
type CarrierService interface {
	Ship(ctx context.Context, order *orders.Order) (bool, error)
}

// SimulatedCarrier packages an order for a fixed delay and succeeds for a
// fixed fraction of shipments.
type SimulatedCarrier struct {
	SuccessRate    float64
	PackagingDelay time.Duration
}

func (c *SimulatedCarrier) Ship(ctx context.Context, order *orders.Order) (bool, error) {
	logging.Logger.Info("Packaging order", "orderId", order.ID, "customerId", order.CustomerID)

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(c.PackagingDelay):
	}

	return rand.Float64() < c.SuccessRate, nil
}

// NewShippingProcessor consumes PAYMENT_SUCCESS events, ships the order, and
// routes it to the sent-orders topic or the failed-shipments dead-letter topic.
func NewShippingProcessor(publisher orders.Publisher, carrier CarrierService, retryCfg retry.Config, sentTopic, failedTopic string) *Processor {
	return &Processor{
		name:      ProcessorNameShipping,
		publisher: publisher,
		retry:     retryCfg,
		outcome:   carrier.Ship,
		success: Route{
			Topic:     sentTopic,
			EventType: orders.EventTypeShipmentSuccess,
			Status:    orders.OrderStatusShipped,
		},
		failure: Route{
			Topic:     failedTopic,
			EventType: orders.EventTypeShipmentFailed,
			Status:    orders.OrderStatusCancelled,
		},
	}
}
