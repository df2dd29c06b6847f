package models

import "time"

// Payment methods accepted at checkout.
const (
	PaymentCOD   = "cod"
	PaymentBkash = "bkash"
	PaymentNagad = "nagad"
)

// Order lifecycle statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// OrderRequest is the untrusted order payload submitted by a client.
// Any price fields a client sneaks into the body are ignored entirely.
type OrderRequest struct {
	Items           []OrderItem     `json:"items"`
	CustomerDetails CustomerDetails `json:"customer_details"`
	PaymentMethod   string          `json:"payment_method"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	SessionID       string          `json:"session_id,omitempty"`
}

// OrderItem is a single requested line item.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CustomerDetails carries the delivery contact for an order.
type CustomerDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ValidatedOrderItem is a line item whose name and price have been
// overwritten from the catalog record at validation time.
type ValidatedOrderItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
	ProductImage string  `json:"product_image,omitempty"`
}

// Subtotal returns price times quantity for this line.
func (i ValidatedOrderItem) Subtotal() float64 {
	return i.ProductPrice * float64(i.Quantity)
}

// Order is the persisted, server-priced order record.
// TotalAmount is always reproducible as the sum of item subtotals.
type Order struct {
	ID              string               `json:"id"`
	SessionID       string               `json:"session_id,omitempty"`
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerPhone   string               `json:"customer_phone"`
	CustomerAddress string               `json:"customer_address"`
	Items           []ValidatedOrderItem `json:"items"`
	TotalAmount     float64              `json:"total_amount"`
	Status          string               `json:"status"`
	PaymentMethod   string               `json:"payment_method"`
	TransactionID   string               `json:"transaction_id,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

// OrderEvent is published to the message broker after an order is
// persisted or changes status. The out-of-band SMS/email worker consumes
// these; it never sees client-supplied data.
type OrderEvent struct {
	OrderID       string    `json:"order_id"`
	Event         string    `json:"event"` // created, status_updated, notification_requested
	Status        string    `json:"status"`
	TotalAmount   float64   `json:"total_amount"`
	CustomerPhone string    `json:"customer_phone"`
	Occurred      time.Time `json:"occurred"`
}
