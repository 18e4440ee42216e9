package orders

import (
	"time"

	"github.com/google/uuid"
)

// EventType classifies an order event on the wire. The string values are part
// of the wire contract shared by every stage.
type EventType string

const (
	EventTypeOrderCreated    EventType = "ORDER_CREATED"
	EventTypePaymentSuccess  EventType = "PAYMENT_SUCCESS"
	EventTypePaymentFailed   EventType = "PAYMENT_FAILED"
	EventTypeShipmentSuccess EventType = "SHIPMENT_SUCCESS"
	EventTypeShipmentFailed  EventType = "SHIPMENT_FAILED"
)

// OrderStatus is the order lifecycle value carried in the Order snapshot.
// Exactly one status holds at any observed snapshot.
type OrderStatus string

const (
	OrderStatusCreated          OrderStatus = "CREATED"
	OrderStatusPaymentCompleted OrderStatus = "PAYMENT_COMPLETED"
	OrderStatusPaymentFailed    OrderStatus = "PAYMENT_FAILED"
	OrderStatusShipped          OrderStatus = "SHIPPED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
)

type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is the domain snapshot embedded in every event. Each stage reads the
// incoming snapshot, mutates Status, and re-embeds it in the outgoing event.
// The event stream is the system of record; no stage persists it elsewhere.
type Order struct {
	ID            string      `json:"id"`
	CustomerID    string      `json:"customerId"`
	CustomerEmail string      `json:"customerEmail"`
	Status        OrderStatus `json:"status"`
	TotalAmount   float64     `json:"totalAmount"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderEvent is the envelope every stage publishes and consumes.
type OrderEvent struct {
	EventID   string    `json:"eventId"`
	OrderID   string    `json:"orderId"`
	EventType EventType `json:"eventType"`
	Payload   Order     `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrderEvent builds an event from the business fields. The event id and
// timestamp are assigned here and never change afterwards. No validation is
// performed; malformed orders are a caller responsibility.
func NewOrderEvent(orderID string, eventType EventType, payload Order) *OrderEvent {
	return &OrderEvent{
		EventID:   uuid.NewString(),
		OrderID:   orderID,
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}
