package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/zarinagems/storefront-api/internal/service"
)

// ContactHandler handles contact form submissions
type ContactHandler struct {
	contactService *service.ContactService
	log            *slog.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *service.ContactService, log *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		log:            log,
	}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode contact request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, fieldErrs, err := h.contactService.Submit(r.Context(), req)
	if err != nil {
		h.log.Error("failed to save contact message", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, validationFailureResponse{
			Error:   "validation failed",
			Details: fieldErrs,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
	h.log.Info("contact message received", "message_id", msg.ID)
}
