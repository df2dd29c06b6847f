package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zarinagems/storefront-api/internal/middleware"
	"github.com/zarinagems/storefront-api/internal/models"
	"github.com/zarinagems/storefront-api/internal/notify"
	"github.com/zarinagems/storefront-api/internal/repository"
	"github.com/zarinagems/storefront-api/internal/service"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	notifier     notify.OrderNotifier
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler. The notifier may be nil
// when no broker is configured.
func NewOrderHandler(orderService *service.OrderService, notifier notify.OrderNotifier, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		notifier:     notifier,
		log:          log,
	}
}

type orderSummary struct {
	ID          string                      `json:"id"`
	TotalAmount float64                     `json:"total_amount"`
	Items       []models.ValidatedOrderItem `json:"items"`
	Status      string                      `json:"status"`
}

type orderCreatedResponse struct {
	Success bool         `json:"success"`
	Order   orderSummary `json:"order"`
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		middleware.RecordOrderOperation("create", false)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), req)
	if err != nil {
		middleware.RecordOrderOperation("create", false)

		var ve *service.ValidationError
		if errors.As(err, &ve) {
			h.log.Warn("order rejected", "reason", ve.Message)
			WriteError(w, http.StatusBadRequest, ve.Message, h.log)
			return
		}

		h.log.Error("failed to create order", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	middleware.RecordOrderOperation("create", true)
	WriteJSON(w, http.StatusOK, orderCreatedResponse{
		Success: true,
		Order: orderSummary{
			ID:          order.ID,
			TotalAmount: order.TotalAmount,
			Items:       order.Items,
			Status:      order.Status,
		},
	}, h.log)
	h.log.Info("order created",
		"order_id", order.ID,
		"total_amount", order.TotalAmount,
		"items_count", len(order.Items),
		"payment_method", order.PaymentMethod,
	)
}

// NotifyOrder handles POST /api/orders/{orderID}/notify
// Dispatches the customer SMS/email for a persisted order. The event
// carries the stored order's data, never anything from this request.
func (h *OrderHandler) NotifyOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			WriteError(w, http.StatusNotFound, "Order not found", h.log)
			return
		}
		h.log.Error("failed to load order for notification", "order_id", orderID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	if h.notifier == nil {
		WriteError(w, http.StatusServiceUnavailable, "Notifications are not available", h.log)
		return
	}

	event := models.OrderEvent{
		OrderID:       order.ID,
		Event:         "notification_requested",
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		CustomerPhone: order.CustomerPhone,
		Occurred:      time.Now().UTC(),
	}
	if err := h.notifier.PublishOrderEvent(r.Context(), event); err != nil {
		h.log.Error("failed to publish order event", "order_id", order.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]any{"success": true}, h.log)
	h.log.Info("order notification dispatched", "order_id", order.ID)
}
