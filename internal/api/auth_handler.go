package api

import (
	"net/http"

	"github.com/phrazzld/expenseflow-api/internal/api/shared"
	"github.com/phrazzld/expenseflow-api/internal/service"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "Server error during registration")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newAuthResponse(res))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "Server error during login")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newAuthResponse(res))
}
