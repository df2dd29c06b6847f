package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zarinagems/storefront-api/internal/catalog"
	"github.com/zarinagems/storefront-api/internal/models"
	"github.com/zarinagems/storefront-api/internal/repository"
)

// ValidationError is a permanent client-input rejection. The message
// names the violated constraint and is safe to surface verbatim; these
// are never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var (
	ErrEmptyOrder            = &ValidationError{Message: "order must contain at least one item"}
	ErrInvalidItem           = &ValidationError{Message: "each item requires a product_id and a positive quantity"}
	ErrMissingCustomerFields = &ValidationError{Message: "customer name, email, phone and address are required"}
	ErrInvalidName           = &ValidationError{Message: "name must be between 2 and 100 characters"}
	ErrInvalidEmail          = &ValidationError{Message: "invalid email address"}
	ErrInvalidPhone          = &ValidationError{Message: "phone must be between 10 and 15 characters"}
	ErrInvalidAddress        = &ValidationError{Message: "address must be between 10 and 500 characters"}
	ErrInvalidPaymentMethod  = &ValidationError{Message: "payment method must be one of cod, bkash or nagad"}
	ErrMissingTransactionID  = &ValidationError{Message: "transaction_id is required for bkash and nagad payments"}
	ErrNoValidProducts       = &ValidationError{Message: "no valid products in order"}
	ErrInvalidStatus         = &ValidationError{Message: "invalid order status"}
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validStatuses = map[string]bool{
	models.StatusPending:   true,
	models.StatusConfirmed: true,
	models.StatusShipped:   true,
	models.StatusDelivered: true,
	models.StatusCancelled: true,
}

// OrderService is the financial integrity boundary of the storefront.
// It turns an untrusted order request into a persisted, server-priced
// order, or rejects it with a precise reason. Prices and names always
// come from the catalog; nothing in the request body is trusted.
type OrderService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	filter      *catalog.Filter
}

// NewOrderService creates a new order service. The catalog filter is
// optional; when present it short-circuits definitely-unknown product ids
// before the store round trip.
func NewOrderService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository, filter *catalog.Filter) *OrderService {
	return &OrderService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		filter:      filter,
	}
}

// CreateOrder validates, prices and persists an order request.
// Validation failures return a *ValidationError; any other error is a
// transient store failure the caller surfaces generically.
func (s *OrderService) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	customer, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	// Distinct ids, preserving first-seen order so rejection messages are
	// deterministic.
	var ids []string
	seen := make(map[string]bool)
	for _, item := range req.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	if s.filter != nil {
		for _, id := range ids {
			if !s.filter.MayContain(id) {
				return nil, validationErrorf("product %s not found", id)
			}
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching products: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrNoValidProducts
	}

	productMap := make(map[string]models.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	var items []models.ValidatedOrderItem
	var total float64
	for _, item := range req.Items {
		product, ok := productMap[item.ProductID]
		if !ok {
			return nil, validationErrorf("product %s not found", item.ProductID)
		}
		if !product.Available() {
			return nil, validationErrorf("%s is out of stock", product.Name)
		}

		items = append(items, models.ValidatedOrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductPrice: product.Price,
			Quantity:     item.Quantity,
			ProductImage: product.ImageURL,
		})
		total += product.Price * float64(item.Quantity)
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		SessionID:       strings.TrimSpace(req.SessionID),
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		Items:           items,
		TotalAmount:     total,
		Status:          models.StatusPending,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       time.Now().UTC(),
	}
	if req.PaymentMethod != models.PaymentCOD {
		order.TransactionID = strings.TrimSpace(req.TransactionID)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("saving order: %w", err)
	}

	return order, nil
}

// validateRequest runs the structural checks in their fixed order and
// returns the normalized customer details: name/address/phone trimmed,
// email trimmed and lower-cased.
func validateRequest(req models.OrderRequest) (*models.CustomerDetails, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" || item.Quantity <= 0 {
			return nil, ErrInvalidItem
		}
	}

	customer := models.CustomerDetails{
		Name:    strings.TrimSpace(req.CustomerDetails.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.CustomerDetails.Email)),
		Phone:   strings.TrimSpace(req.CustomerDetails.Phone),
		Address: strings.TrimSpace(req.CustomerDetails.Address),
	}

	if customer.Name == "" || customer.Email == "" || customer.Phone == "" || customer.Address == "" {
		return nil, ErrMissingCustomerFields
	}
	if len(customer.Name) < 2 || len(customer.Name) > 100 {
		return nil, ErrInvalidName
	}
	if !emailPattern.MatchString(customer.Email) {
		return nil, ErrInvalidEmail
	}
	if len(customer.Phone) < 10 || len(customer.Phone) > 15 {
		return nil, ErrInvalidPhone
	}
	if len(customer.Address) < 10 || len(customer.Address) > 500 {
		return nil, ErrInvalidAddress
	}

	switch req.PaymentMethod {
	case models.PaymentCOD:
	case models.PaymentBkash, models.PaymentNagad:
		if strings.TrimSpace(req.TransactionID) == "" {
			return nil, ErrMissingTransactionID
		}
	default:
		return nil, ErrInvalidPaymentMethod
	}

	return &customer, nil
}

// GetOrder returns a persisted order by id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// ListOrders returns all orders, newest first. Admin surface.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.List(ctx)
}

// UpdateStatus moves an order to a new lifecycle status. Admin surface.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) error {
	if !validStatuses[status] {
		return ErrInvalidStatus
	}
	return s.orderRepo.UpdateStatus(ctx, id, status)
}
