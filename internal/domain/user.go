package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role gates capability at the authorization boundary.
type Role string

const (
	// RoleUser is the default role for registered users.
	RoleUser Role = "user"

	// RoleAdmin grants access to cross-user administration.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole converts s into a Role, returning ErrInvalidRole for unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// User represents a registered account.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a User with a fresh ID and timestamps.
// The caller is responsible for hashing the password before calling it.
func NewUser(name, email, hashedPassword string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, NewValidationError("role", MsgInvalidRole, ErrInvalidRole)
	}

	now := time.Now().UTC()
	return &User{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
