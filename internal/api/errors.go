package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/expenseflow-api/internal/api/shared"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/service"
	"github.com/phrazzld/expenseflow-api/internal/service/auth"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// Client-facing messages for mapped errors.
const (
	MsgUserExists         = "User already exists with this email"
	MsgInvalidCredentials = "Invalid email or password"
	MsgSelfDeletion       = "Cannot delete your own account"
	MsgUserNotFound       = "User not found"
	MsgContactNotFound    = "Contact message not found"
	MsgInvalidID          = "Invalid ID format"
	MsgInvalidBody        = "Invalid request body"
	MsgUnexpected         = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, shared.ErrInvalidBody),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Duplicates are reported as 400, never 409.
	case store.IsDuplicateError(err),
		errors.Is(err, service.ErrSelfDeletion):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, shared.ErrUnauthenticated):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Unknown errors get a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.Is(err, domain.ErrInvalidID):
		return MsgInvalidID
	case errors.Is(err, shared.ErrInvalidBody):
		return MsgInvalidBody
	case errors.Is(err, store.ErrEmailExists):
		return MsgUserExists
	case errors.Is(err, service.ErrSelfDeletion):
		return MsgSelfDeletion
	case errors.Is(err, service.ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Not authorized, token failed"
	case errors.Is(err, shared.ErrUnauthenticated):
		return "Not authorized, no token"
	case errors.Is(err, shared.ErrForbidden):
		return "Not authorized as admin"
	case errors.Is(err, service.ErrNotOwned):
		return "Not authorized to access this resource"
	case errors.Is(err, store.ErrUserNotFound):
		return MsgUserNotFound
	case errors.Is(err, store.ErrContactNotFound):
		return MsgContactNotFound
	case errors.Is(err, store.ErrEntryNotFound):
		return "Entry not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"
	default:
		return MsgUnexpected
	}
}

// HandleAPIError writes the response for err. Mapped errors carry their safe
// message; anything that maps to 500 carries internalMsg, or a generic
// message when internalMsg is empty. The full error is only logged.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && internalMsg != "" {
		message = internalMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
