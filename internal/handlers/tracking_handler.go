package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zarinagems/storefront-api/internal/delivery"
	"github.com/zarinagems/storefront-api/internal/models"
	"github.com/zarinagems/storefront-api/internal/notify"
	"github.com/zarinagems/storefront-api/internal/repository"
	"github.com/zarinagems/storefront-api/internal/service"
)

// TrackingHandler serves order status lookups and delivery ETAs.
type TrackingHandler struct {
	orderService *service.OrderService
	estimator    *delivery.Estimator
	proximity    *delivery.ProximityNotifier
	notifier     notify.OrderNotifier
	log          *slog.Logger
}

// NewTrackingHandler creates a new tracking handler. The notifier may be
// nil; proximity events are then only reported in the response.
func NewTrackingHandler(orderService *service.OrderService, estimator *delivery.Estimator, proximity *delivery.ProximityNotifier, notifier notify.OrderNotifier, log *slog.Logger) *TrackingHandler {
	return &TrackingHandler{
		orderService: orderService,
		estimator:    estimator,
		proximity:    proximity,
		notifier:     notifier,
		log:          log,
	}
}

type trackingResponse struct {
	OrderID      string                      `json:"order_id"`
	Status       string                      `json:"status"`
	TotalAmount  float64                     `json:"total_amount"`
	Items        []models.ValidatedOrderItem `json:"items"`
	ETA          *delivery.Estimate          `json:"eta,omitempty"`
	Notification string                      `json:"notification,omitempty"`
}

type validationFailureResponse struct {
	Error   string               `json:"error"`
	Details []service.FieldError `json:"details"`
}

// Track handles GET /api/orders/track/{orderID}
// With rider_lat/rider_lon/dest_lat/dest_lon query parameters present,
// the response embeds a delivery ETA; an optional vehicle parameter
// selects the speed class. Parameter violations are accumulated so the
// client sees all of them at once.
func (h *TrackingHandler) Track(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.log.Error("failed to load order for tracking", "order_id", orderID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := trackingResponse{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       order.Items,
	}

	query := r.URL.Query()
	if query.Has("rider_lat") || query.Has("rider_lon") || query.Has("dest_lat") || query.Has("dest_lon") {
		coords, fieldErrs := parseCoordinates(query.Get("rider_lat"), query.Get("rider_lon"), query.Get("dest_lat"), query.Get("dest_lon"))
		if len(fieldErrs) > 0 {
			writeJSON(w, http.StatusBadRequest, validationFailureResponse{
				Error:   "validation failed",
				Details: fieldErrs,
			})
			return
		}

		estimate := h.estimator.Estimate(coords.riderLat, coords.riderLon, coords.destLat, coords.destLon, query.Get("vehicle"))
		resp.ETA = &estimate

		straightKm := delivery.HaversineKm(coords.riderLat, coords.riderLon, coords.destLat, coords.destLon)
		if event, fire := h.proximity.Observe(order.ID, straightKm); fire {
			resp.Notification = event
			h.publishProximityEvent(r, order, event)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type coordinates struct {
	riderLat, riderLon float64
	destLat, destLon   float64
}

func parseCoordinates(riderLat, riderLon, destLat, destLon string) (coordinates, []service.FieldError) {
	var coords coordinates
	var errs []service.FieldError

	parse := func(field, value string, dest *float64, min, max float64) {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < min || v > max {
			errs = append(errs, service.FieldError{Field: field, Message: "must be a number between " + strconv.FormatFloat(min, 'f', -1, 64) + " and " + strconv.FormatFloat(max, 'f', -1, 64)})
			return
		}
		*dest = v
	}

	parse("rider_lat", riderLat, &coords.riderLat, -90, 90)
	parse("rider_lon", riderLon, &coords.riderLon, -180, 180)
	parse("dest_lat", destLat, &coords.destLat, -90, 90)
	parse("dest_lon", destLon, &coords.destLon, -180, 180)

	return coords, errs
}

func (h *TrackingHandler) publishProximityEvent(r *http.Request, order *models.Order, event string) {
	if h.notifier == nil {
		return
	}

	err := h.notifier.PublishOrderEvent(r.Context(), models.OrderEvent{
		OrderID:       order.ID,
		Event:         event,
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		CustomerPhone: order.CustomerPhone,
		Occurred:      time.Now().UTC(),
	})
	if err != nil {
		h.log.Error("failed to publish proximity event", "order_id", order.ID, "event", event, "error", err)
	}
}
