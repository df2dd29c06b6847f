package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zarinagems/storefront-api/internal/models"
	"github.com/zarinagems/storefront-api/internal/repository"
)

// FieldError is one violated constraint on a named input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ContactRequest is the untrusted contact-form payload.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// ContactService validates and stores customer inquiries. Unlike order
// validation, all violations are accumulated so the client sees every
// problem at once.
type ContactService struct {
	repo repository.ContactRepository
}

// NewContactService creates a new contact service
func NewContactService(repo repository.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// ValidateContactRequest returns every violated constraint in the request.
func ValidateContactRequest(req ContactRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 100 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be between 2 and 100 characters"})
	}

	email := strings.TrimSpace(req.Email)
	if !emailPattern.MatchString(strings.ToLower(email)) {
		errs = append(errs, FieldError{Field: "email", Message: "invalid email address"})
	}

	message := strings.TrimSpace(req.Message)
	if len(message) < 10 || len(message) > 1000 {
		errs = append(errs, FieldError{Field: "message", Message: "message must be between 10 and 1000 characters"})
	}

	return errs
}

// Submit validates the request and persists the message. Violations come
// back as the FieldError slice; a non-nil error is a transient store
// failure.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (*models.ContactMessage, []FieldError, error) {
	if errs := ValidateContactRequest(req); len(errs) > 0 {
		return nil, errs, nil
	}

	msg := &models.ContactMessage{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, nil, fmt.Errorf("saving contact message: %w", err)
	}
	return msg, nil, nil
}
