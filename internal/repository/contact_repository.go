package repository

import (
	"context"
	"sync"

	"github.com/zarinagems/storefront-api/internal/models"
)

// ContactRepository defines the interface for contact message persistence.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

// InMemoryContactRepository implements ContactRepository with in-memory storage
type InMemoryContactRepository struct {
	mu       sync.Mutex
	messages []models.ContactMessage
}

// NewInMemoryContactRepository creates a new in-memory contact repository
func NewInMemoryContactRepository() *InMemoryContactRepository {
	return &InMemoryContactRepository{}
}

// Create stores a contact message and assigns it an id
func (r *InMemoryContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = int64(len(r.messages) + 1)
	r.messages = append(r.messages, *msg)
	return nil
}

// Messages returns the stored messages. Test helper.
func (r *InMemoryContactRepository) Messages() []models.ContactMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.ContactMessage, len(r.messages))
	copy(out, r.messages)
	return out
}
