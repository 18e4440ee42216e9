package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	entity "github.com/cgund98/go-order-pipeline/internal/entity/orders"
	"github.com/cgund98/go-order-pipeline/internal/infra/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPublisher is a mock implementation of entity.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, event *entity.OrderEvent) error {
	callArgs := m.Called(ctx, topic, event)
	return callArgs.Error(0)
}

func testRetryConfig() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2.0}
}

func TestService_CreateOrder(t *testing.T) {
	t.Run("publishes the created event keyed by customer", func(t *testing.T) {
		mockPublisher := &MockPublisher{}
		mockPublisher.On("Publish", mock.Anything, "new-orders", mock.MatchedBy(func(event *entity.OrderEvent) bool {
			return event.EventType == entity.EventTypeOrderCreated &&
				event.OrderID == "O1" &&
				event.Payload.CustomerID == "C1" &&
				event.EventID != ""
		})).Return(nil)

		service := NewService(mockPublisher, testRetryConfig(), "new-orders")

		event, err := service.CreateOrder(context.Background(), entity.Order{
			ID:         "O1",
			CustomerID: "C1",
		})

		assert.NoError(t, err)
		require.NotNil(t, event)
		assert.Equal(t, entity.EventTypeOrderCreated, event.EventType)
		assert.Equal(t, entity.OrderStatusCreated, event.Payload.Status)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("publish failure is retried then surfaced", func(t *testing.T) {
		mockPublisher := &MockPublisher{}
		mockPublisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))

		service := NewService(mockPublisher, testRetryConfig(), "new-orders")

		event, err := service.CreateOrder(context.Background(), entity.Order{ID: "O1", CustomerID: "C1"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send order event")
		assert.Nil(t, event)
		mockPublisher.AssertNumberOfCalls(t, "Publish", 3)
	})
}
