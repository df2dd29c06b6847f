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

// AdminHandler serves the back-office order screens.
type AdminHandler struct {
	orderService *service.OrderService
	notifier     notify.OrderNotifier
	log          *slog.Logger
}

// NewAdminHandler creates a new admin handler. The notifier may be nil.
func NewAdminHandler(orderService *service.OrderService, notifier notify.OrderNotifier, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
		notifier:     notifier,
		log:          log,
	}
}

// ListOrders handles GET /api/admin/orders
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		h.log.Error("failed to list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus handles PUT /api/admin/orders/{orderID}/status
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.orderService.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			middleware.RecordOrderOperation("update_status", false)
			writeError(w, http.StatusBadRequest, ve.Message)
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RecordOrderOperation("update_status", false)
			writeError(w, http.StatusNotFound, "Order not found")
		default:
			middleware.RecordOrderOperation("update_status", false)
			h.log.Error("failed to update order status", "order_id", orderID, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	middleware.RecordOrderOperation("update_status", true)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Order status updated",
		"order_id": orderID,
	})
	h.log.Info("order status updated", "order_id", orderID, "status", req.Status)

	if h.notifier != nil {
		event := models.OrderEvent{
			OrderID:  orderID,
			Event:    "status_updated",
			Status:   req.Status,
			Occurred: time.Now().UTC(),
		}
		if err := h.notifier.PublishOrderEvent(r.Context(), event); err != nil {
			h.log.Error("failed to publish status event", "order_id", orderID, "error", err)
		}
	}
}
