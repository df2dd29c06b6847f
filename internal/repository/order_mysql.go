package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zarinagems/storefront-api/internal/models"
)

// MySQLOrderRepository implements OrderRepository against the orders and
// order_items tables.
type MySQLOrderRepository struct {
	db *sql.DB
}

// NewMySQLOrderRepository creates a MySQL-backed order repository
func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// Create inserts the order and its line items in one transaction.
func (r *MySQLOrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, session_id, customer_name, customer_email, customer_phone,
			customer_address, total_amount, status, payment_method, transaction_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, nullIfEmpty(order.SessionID), order.CustomerName, order.CustomerEmail,
		order.CustomerPhone, order.CustomerAddress, order.TotalAmount, order.Status,
		order.PaymentMethod, nullIfEmpty(order.TransactionID), order.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("inserting order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity, product_image)
			VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, item.ProductID, item.ProductName, item.ProductPrice, item.Quantity, item.ProductImage,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order: %w", err)
	}
	return nil
}

// GetByID returns an order with its line items
func (r *MySQLOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	var sessionID, transactionID sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, customer_name, customer_email, customer_phone,
			customer_address, total_amount, status, payment_method, transaction_id, created_at
		FROM orders WHERE id = ?`, id,
	).Scan(
		&order.ID, &sessionID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.CustomerAddress, &order.TotalAmount, &order.Status, &order.PaymentMethod,
		&transactionID, &order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying order %s: %w", id, err)
	}
	order.SessionID = sessionID.String
	order.TransactionID = transactionID.String

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *MySQLOrderRepository) loadItems(ctx context.Context, orderID string) ([]models.ValidatedOrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, product_name, product_price, quantity, product_image
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []models.ValidatedOrderItem
	for rows.Next() {
		var item models.ValidatedOrderItem
		var image sql.NullString
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.ProductPrice, &item.Quantity, &image); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		item.ProductImage = image.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// List returns all orders with their items, newest first
func (r *MySQLOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.session_id, o.customer_name, o.customer_email, o.customer_phone,
			o.customer_address, o.total_amount, o.status, o.payment_method, o.transaction_id, o.created_at,
			oi.product_id, oi.product_name, oi.product_price, oi.quantity, oi.product_image
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		ORDER BY o.created_at DESC, oi.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	ordersMap := make(map[string]*models.Order)
	var orderIDs []string

	for rows.Next() {
		var (
			order                    models.Order
			sessionID, transactionID sql.NullString
			productID, productName   sql.NullString
			productImage             sql.NullString
			productPrice             sql.NullFloat64
			quantity                 sql.NullInt64
		)

		if err := rows.Scan(
			&order.ID, &sessionID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
			&order.CustomerAddress, &order.TotalAmount, &order.Status, &order.PaymentMethod,
			&transactionID, &order.CreatedAt,
			&productID, &productName, &productPrice, &quantity, &productImage,
		); err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}

		existing, ok := ordersMap[order.ID]
		if !ok {
			order.SessionID = sessionID.String
			order.TransactionID = transactionID.String
			ordersMap[order.ID] = &order
			orderIDs = append(orderIDs, order.ID)
			existing = ordersMap[order.ID]
		}

		if productID.Valid {
			existing.Items = append(existing.Items, models.ValidatedOrderItem{
				ProductID:    productID.String,
				ProductName:  productName.String,
				ProductPrice: productPrice.Float64,
				Quantity:     int(quantity.Int64),
				ProductImage: productImage.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *ordersMap[id])
	}
	return orders, nil
}

// UpdateStatus changes the status of an existing order
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
