package api

import (
	"net/http"

	"github.com/phrazzld/expenseflow-api/internal/api/shared"
	"github.com/phrazzld/expenseflow-api/internal/service"
)

// MsgContactSent confirms a contact submission.
const MsgContactSent = "Your message has been sent successfully!"

// ContactHandler serves /api/contact.
type ContactHandler struct {
	contacts *service.ContactService
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req service.ContactInput
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	msg, err := h.contacts.Submit(r.Context(), user.ID, req)
	if err != nil {
		HandleAPIError(w, r, err, "Server error while submitting contact form")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ContactResponse{
		Message: MsgContactSent,
		Contact: msg,
	})
}

// ListMine handles GET /api/contact.
func (h *ContactHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	msgs, err := h.contacts.ListMine(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Server error while fetching contact messages")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(msgs))
}
