package orders

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cgund98/go-order-pipeline/internal/infra/eventsrc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventPublisher_Publish(t *testing.T) {
	bus := eventsrc.NewInMemoryBus()
	publisher := NewEventPublisher(bus)

	event := NewOrderEvent("O1", EventTypeOrderCreated, Order{
		ID:         "O1",
		CustomerID: "C1",
		Status:     OrderStatusCreated,
	})

	err := publisher.Publish(context.Background(), "new-orders", event)
	require.NoError(t, err)

	msgs := bus.TopicMessages("new-orders")
	require.Len(t, msgs, 1)

	// Keyed by customer id so all of C1's events share a partition.
	assert.Equal(t, []byte("C1"), msgs[0].Key)

	var published OrderEvent
	require.NoError(t, json.Unmarshal(msgs[0].Value, &published))
	assert.Equal(t, event.EventID, published.EventID)
	assert.Equal(t, EventTypeOrderCreated, published.EventType)
	assert.Equal(t, event.Payload, published.Payload)
}
