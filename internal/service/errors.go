package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/expenseflow-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// The API layer maps each of them to an HTTP status code.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrUserExists indicates a registration with an email that is already taken.
	ErrUserExists = fmt.Errorf("%w: user already exists", store.ErrEmailExists)

	// ErrInvalidCredentials covers both an unknown email and a wrong password
	// so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSelfDeletion indicates an administrator tried to delete their own account.
	ErrSelfDeletion = errors.New("cannot delete own account")
)
