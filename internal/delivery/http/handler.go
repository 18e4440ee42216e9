// Package http is the thin control-plane layer in front of the pipeline.
// Malformed intake input is surfaced synchronously here and never enters the
// event stream.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	entity "github.com/cgund98/go-order-pipeline/internal/entity/orders"
	"github.com/cgund98/go-order-pipeline/internal/infra/logging"
	"github.com/cgund98/go-order-pipeline/internal/service/orders"

	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Details   []string  `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Error("error writing response", "error", err)
	}
}

func validateOrder(order *entity.Order) []string {
	var details []string
	if order.ID == "" {
		details = append(details, "id: must not be blank")
	}
	if order.CustomerID == "" {
		details = append(details, "customerId: must not be blank")
	}
	return details
}

// OrderHandler serves the order intake endpoints.
type OrderHandler struct {
	service *orders.Service
}

func NewOrderHandler(service *orders.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/orders", h.CreateOrder)
	r.Patch("/api/orders/{orderID}/status", h.UpdateOrderStatus)
	r.Get("/health", Health)
	return r
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var order entity.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		logging.Logger.Warn("Invalid JSON format received", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     "Invalid JSON format",
			Message:   err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	if details := validateOrder(&order); len(details) > 0 {
		logging.Logger.Warn("Validation errors", "details", details)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     "Validation failed",
			Details:   details,
			Timestamp: time.Now().UTC(),
		})
		return
	}

	event, err := h.service.CreateOrder(r.Context(), order)
	if err != nil {
		logging.Logger.Error("Error creating order", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:     "Internal server error",
			Message:   "Please try again later",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	status := r.URL.Query().Get("status")

	h.service.UpdateOrderStatus(r.Context(), orderID, status)
	w.WriteHeader(http.StatusOK)
}

// ShippingHandler serves the shipping status endpoint. The status is a stub:
// the pipeline keeps order state only in the event stream, so this endpoint is
// not authoritative.
type ShippingHandler struct{}

func NewShippingHandler() *ShippingHandler {
	return &ShippingHandler{}
}

func (h *ShippingHandler) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/shipping/status/{orderID}", h.GetShippingStatus)
	r.Get("/health", Health)
	return r
}

func (h *ShippingHandler) GetShippingStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	logging.Logger.Info("Shipping status requested", "orderId", orderID)

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, string(entity.OrderStatusShipped))
}

// Health is the liveness probe shared by all services.
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Service is running: %d", time.Now().UnixMilli())
}
