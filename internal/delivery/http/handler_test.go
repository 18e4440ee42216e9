package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	entity "github.com/cgund98/go-order-pipeline/internal/entity/orders"
	"github.com/cgund98/go-order-pipeline/internal/infra/retry"
	"github.com/cgund98/go-order-pipeline/internal/service/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	err    error
	events []*entity.OrderEvent
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, event *entity.OrderEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func newTestHandler(publisher *fakePublisher) *OrderHandler {
	retryCfg := retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond, Multiplier: 2.0}
	service := orders.NewService(publisher, retryCfg, "new-orders")
	return NewOrderHandler(service)
}

func decodeError(t *testing.T, body *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(body.Body.Bytes(), &resp))
	return resp
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	t.Run("returns the created event", func(t *testing.T) {
		publisher := &fakePublisher{}
		router := newTestHandler(publisher).Routes()

		body := `{"id":"O1","customerId":"C1","customerEmail":"c1@example.com","totalAmount":42.5}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var event entity.OrderEvent
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
		assert.Equal(t, entity.EventTypeOrderCreated, event.EventType)
		assert.Equal(t, "O1", event.OrderID)
		assert.NotEmpty(t, event.EventID)
		assert.Equal(t, entity.OrderStatusCreated, event.Payload.Status)

		require.Len(t, publisher.events, 1)
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		router := newTestHandler(&fakePublisher{}).Routes()

		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"id": `))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "Invalid JSON format", resp.Error)
		assert.NotEmpty(t, resp.Message)
		assert.False(t, resp.Timestamp.IsZero())
	})

	t.Run("missing required fields return 400 with details", func(t *testing.T) {
		publisher := &fakePublisher{}
		router := newTestHandler(publisher).Routes()

		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"totalAmount": 10}`))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "Validation failed", resp.Error)
		assert.Contains(t, resp.Details, "id: must not be blank")
		assert.Contains(t, resp.Details, "customerId: must not be blank")

		// Invalid input never enters the event stream.
		assert.Empty(t, publisher.events)
	})

	t.Run("publish failure returns 500", func(t *testing.T) {
		publisher := &fakePublisher{err: errors.New("broker unavailable")}
		router := newTestHandler(publisher).Routes()

		body := `{"id":"O1","customerId":"C1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "Internal server error", resp.Error)
	})
}

func TestOrderHandler_UpdateOrderStatus(t *testing.T) {
	router := newTestHandler(&fakePublisher{}).Routes()

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/O1/status?status=SHIPPED", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShippingHandler_GetShippingStatus(t *testing.T) {
	router := NewShippingHandler().Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/shipping/status/O1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SHIPPED", rec.Body.String())
}

func TestHealth(t *testing.T) {
	router := newTestHandler(&fakePublisher{}).Routes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Service is running:")
}
