package api

import (
	"net/http"

	"github.com/phrazzld/expenseflow-api/internal/api/shared"
	"github.com/phrazzld/expenseflow-api/internal/service"
)

// MsgUserDeleted confirms an account removal.
const MsgUserDeleted = "User and associated data removed successfully"

// AdminHandler serves /api/admin. Routes must be guarded by
// AuthMiddleware.Authenticate and RequireAdmin.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Server error while fetching users")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(users))
}

// DeleteUser handles DELETE /api/admin/users/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin, id, ok := handleUserAndPathUUID(w, r)
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(r.Context(), id, admin.ID); err != nil {
		HandleAPIError(w, r, err, "Server error while deleting user")
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, MsgUserDeleted)
}

// ListContacts handles GET /api/admin/contacts.
func (h *AdminHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.admin.ListContacts(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Server error while fetching contacts")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(contacts))
}

// UpdateContact handles PUT /api/admin/contacts/{id}.
func (h *AdminHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	_, id, ok := handleUserAndPathUUID(w, r)
	if !ok {
		return
	}

	var req ContactStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	msg, err := h.admin.UpdateContactStatus(r.Context(), id, req.Status)
	if err != nil {
		HandleAPIError(w, r, err, "Server error while updating contact")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, msg)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Server error while fetching statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
