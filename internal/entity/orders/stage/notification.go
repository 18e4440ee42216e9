package stage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cgund98/go-order-pipeline/internal/entity/orders"
	"github.com/cgund98/go-order-pipeline/internal/infra/logging"
	"github.com/cgund98/go-order-pipeline/internal/infra/retry"
)

const ProcessorNameNotification = "notification-sender"

// Notifier is the terminal stage. It consumes SHIPMENT_SUCCESS events and
// notifies the customer. Notification is log-only: it publishes nothing and
// does not mutate the order.
type Notifier struct {
	retry retry.Config
}

func NewNotifier(retryCfg retry.Config) *Notifier {
	return &Notifier{retry: retryCfg}
}

func (n *Notifier) Name() string {
	return ProcessorNameNotification
}

func (n *Notifier) Consume(ctx context.Context, batch [][]byte) error {
	for _, data := range batch {
		err := retry.Do(ctx, n.retry, func() error {
			return n.sendNotification(data)
		})
		if err != nil {
			return fmt.Errorf("%s: %w", n.Name(), err)
		}
	}
	return nil
}

func (n *Notifier) sendNotification(data []byte) error {
	var event orders.OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal order event: %w", err)
	}

	order := event.Payload

	logging.Logger.Info("Notification sent",
		"orderId", order.ID,
		"customerEmail", order.CustomerEmail,
		"status", order.Status,
		"totalAmount", order.TotalAmount)

	return nil
}
