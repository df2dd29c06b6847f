package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zarinagems/storefront-api/internal/models"
)

// MySQLContactRepository implements ContactRepository against the
// contact_messages table.
type MySQLContactRepository struct {
	db *sql.DB
}

// NewMySQLContactRepository creates a MySQL-backed contact repository
func NewMySQLContactRepository(db *sql.DB) *MySQLContactRepository {
	return &MySQLContactRepository{db: db}
}

// Create inserts a contact message and fills in its generated id
func (r *MySQLContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_messages (name, email, phone, message, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		msg.Name, msg.Email, nullIfEmpty(msg.Phone), msg.Message, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting contact message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading contact message id: %w", err)
	}
	msg.ID = id
	return nil
}
