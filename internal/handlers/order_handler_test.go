package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zarinagems/storefront-api/internal/catalog"
	"github.com/zarinagems/storefront-api/internal/models"
	"github.com/zarinagems/storefront-api/internal/repository"
	"github.com/zarinagems/storefront-api/internal/service"
	"github.com/zarinagems/storefront-api/pkg/logger"
)

type fakeNotifier struct {
	events []models.OrderEvent
	err    error
}

func (f *fakeNotifier) PublishOrderEvent(ctx context.Context, event models.OrderEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func newTestStack(t *testing.T) (*service.OrderService, *repository.InMemoryOrderRepository) {
	t.Helper()

	productRepo := repository.NewInMemoryProductRepository()
	orderRepo := repository.NewInMemoryOrderRepository()

	ids, err := productRepo.AllIDs(context.Background())
	if err != nil {
		t.Fatalf("AllIDs() unexpected error = %v", err)
	}

	return service.NewOrderService(productRepo, orderRepo, catalog.NewFilter(ids)), orderRepo
}

const validOrderBody = `{
	"items": [{"product_id": "ring-aurora", "quantity": 2}],
	"customer_details": {
		"name": "Anika Rahman",
		"email": "anika@example.com",
		"phone": "01712345678",
		"address": "House 12, Road 5, Dhanmondi, Dhaka"
	},
	"payment_method": "cod"
}`

func TestOrderHandler_CreateOrder(t *testing.T) {
	orderService, _ := newTestStack(t)
	handler := NewOrderHandler(orderService, nil, logger.New("error"))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantErrSub string
	}{
		{
			name:       "valid order",
			body:       validOrderBody,
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed json",
			body:       `{"items": [`,
			wantStatus: http.StatusBadRequest,
			wantErrSub: "Invalid request body",
		},
		{
			name: "empty items",
			body: `{
				"items": [],
				"customer_details": {"name": "Anika Rahman", "email": "anika@example.com", "phone": "01712345678", "address": "House 12, Road 5, Dhanmondi, Dhaka"},
				"payment_method": "cod"
			}`,
			wantStatus: http.StatusBadRequest,
			wantErrSub: "at least one item",
		},
		{
			name: "mobile payment without transaction id",
			body: `{
				"items": [{"product_id": "ring-aurora", "quantity": 1}],
				"customer_details": {"name": "Anika Rahman", "email": "anika@example.com", "phone": "01712345678", "address": "House 12, Road 5, Dhanmondi, Dhaka"},
				"payment_method": "bkash"
			}`,
			wantStatus: http.StatusBadRequest,
			wantErrSub: "transaction_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.CreateOrder(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantErrSub != "" && !strings.Contains(rec.Body.String(), tt.wantErrSub) {
				t.Errorf("body %q does not mention %q", rec.Body.String(), tt.wantErrSub)
			}
		})
	}
}

func TestOrderHandler_CreateOrder_IgnoresClientPrices(t *testing.T) {
	orderService, orderRepo := newTestStack(t)
	handler := NewOrderHandler(orderService, nil, logger.New("error"))

	// The client claims a price of 1 and a total of 2; catalog price of
	// ring-aurora is 3200.
	body := `{
		"items": [{"product_id": "ring-aurora", "quantity": 2, "product_price": 1}],
		"customer_details": {
			"name": "Anika Rahman",
			"email": "anika@example.com",
			"phone": "01712345678",
			"address": "House 12, Road 5, Dhanmondi, Dhaka"
		},
		"payment_method": "cod",
		"total_amount": 2
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.CreateOrder(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Order   struct {
			ID          string  `json:"id"`
			TotalAmount float64 `json:"total_amount"`
			Status      string  `json:"status"`
		} `json:"order"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Order.TotalAmount != 6400 {
		t.Errorf("total_amount = %v, want 6400", resp.Order.TotalAmount)
	}
	if resp.Order.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", resp.Order.Status)
	}

	stored, err := orderRepo.GetByID(context.Background(), resp.Order.ID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if stored.TotalAmount != 6400 {
		t.Errorf("persisted total_amount = %v, want 6400", stored.TotalAmount)
	}
}

func TestOrderHandler_NotifyOrder(t *testing.T) {
	orderService, _ := newTestStack(t)
	notifier := &fakeNotifier{}
	handler := NewOrderHandler(orderService, notifier, logger.New("error"))

	order, err := orderService.CreateOrder(context.Background(), models.OrderRequest{
		Items: []models.OrderItem{{ProductID: "ring-aurora", Quantity: 1}},
		CustomerDetails: models.CustomerDetails{
			Name:    "Anika Rahman",
			Email:   "anika@example.com",
			Phone:   "01712345678",
			Address: "House 12, Road 5, Dhanmondi, Dhaka",
		},
		PaymentMethod: models.PaymentCOD,
	})
	if err != nil {
		t.Fatalf("CreateOrder() unexpected error = %v", err)
	}

	r := chi.NewRouter()
	r.Post("/api/orders/{orderID}/notify", handler.NotifyOrder)

	// Unknown order.
	req := httptest.NewRequest(http.MethodPost, "/api/orders/nope/notify", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown order status = %d, want 404", rec.Code)
	}

	// Known order dispatches an event built from the stored record.
	req = httptest.NewRequest(http.MethodPost, "/api/orders/"+order.ID+"/notify", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body %s)", rec.Code, rec.Body.String())
	}

	if len(notifier.events) != 1 {
		t.Fatalf("published %d events, want 1", len(notifier.events))
	}
	event := notifier.events[0]
	if event.OrderID != order.ID {
		t.Errorf("event order id = %q, want %q", event.OrderID, order.ID)
	}
	if event.CustomerPhone != "01712345678" {
		t.Errorf("event phone = %q, want the stored order's phone", event.CustomerPhone)
	}
}
