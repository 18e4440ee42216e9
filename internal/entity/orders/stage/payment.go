package stage

import (
	"context"
	"math/rand"

	"github.com/cgund98/go-order-pipeline/internal/entity/orders"
	"github.com/cgund98/go-order-pipeline/internal/infra/retry"
)

const ProcessorNamePayment = "payment-processor"

// PaymentGateway charges an order. A false result means the payment was
// declined; an error means the gateway could not be reached.
type PaymentGateway interface {
	Charge(ctx context.Context, order *orders.Order) (bool, error)
}

// RandomPaymentGateway simulates a payment gateway that approves a fixed
// fraction of charges.
type RandomPaymentGateway struct {
	SuccessRate float64
}

func (g *RandomPaymentGateway) Charge(ctx context.Context, order *orders.Order) (bool, error) {
	return rand.Float64() < g.SuccessRate, nil
}

// NewPaymentProcessor consumes ORDER_CREATED events, charges the order, and
// routes it to the paid-orders topic or the failed-payments dead-letter topic.
func NewPaymentProcessor(publisher orders.Publisher, gateway PaymentGateway, retryCfg retry.Config, paidTopic, failedTopic string) *Processor {
	return &Processor{
		name:      ProcessorNamePayment,
		publisher: publisher,
		retry:     retryCfg,
		outcome:   gateway.Charge,
		success: Route{
			Topic:     paidTopic,
			EventType: orders.EventTypePaymentSuccess,
			Status:    orders.OrderStatusPaymentCompleted,
		},
		failure: Route{
			Topic:     failedTopic,
			EventType: orders.EventTypePaymentFailed,
			Status:    orders.OrderStatusPaymentFailed,
		},
	}
}
