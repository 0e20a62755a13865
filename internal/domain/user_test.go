package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("Bob", "bob@x.com", "$2a$10$hash", RoleUser)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Bob", user.Name)
	assert.Equal(t, RoleUser, user.Role)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	assert.False(t, user.IsAdmin())

	_, err = NewUser("Bob", "bob@x.com", "$2a$10$hash", Role("root"))
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	user, err := NewUser("Bob", "bob@x.com", "$2a$10$secret", RoleAdmin)
	require.NoError(t, err)

	data, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), `"role":"admin"`)
	assert.True(t, user.IsAdmin())
}

func TestContactStatusValid(t *testing.T) {
	assert.True(t, ContactPending.Valid())
	assert.True(t, ContactReviewed.Valid())
	assert.False(t, ContactStatus("archived").Valid())

	msg := NewContactMessage(uuid.New(), "Bob", "bob@x.com", "Hello", "A longer body")
	assert.Equal(t, ContactPending, msg.Status)
}
