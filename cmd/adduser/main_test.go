package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/platform/memory"
	"github.com/phrazzld/expenseflow-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testURL = "postgres://unused"

func memoryOpener(users store.UserStore) userOpener {
	return func(context.Context, string) (store.UserStore, func() error, error) {
		return users, func() error { return nil }, nil
	}
}

func newUsers() store.UserStore {
	return memory.New(nil).Stores().Users
}

func TestRun_CreatesAdmin(t *testing.T) {
	users := newUsers()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

	args := []string{"-name", "Jane Doe", "-email", "jane@example.com", "-password", "Passw0rd!", "-db", testURL, "-cost", "4"}
	require.NoError(t, runWith(args, new(bytes.Buffer), stdout, stderr, memoryOpener(users)))
	assert.Contains(t, stdout.String(), "User jane@example.com created with role admin")

	user, err := users.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("Passw0rd!")))
}

func TestRun_PromptsForPassword(t *testing.T) {
	users := newUsers()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	stdin := bytes.NewBufferString("Typed1!x\n")

	args := []string{"-name", "Jane Doe", "-email", "jane@example.com", "-role", "user", "-db", testURL, "-cost", "4"}
	require.NoError(t, runWith(args, stdin, stdout, stderr, memoryOpener(users)))
	assert.Contains(t, stdout.String(), "Password: ")

	user, err := users.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("Typed1!x")))
}

func TestRun_PromotesExistingUser(t *testing.T) {
	users := newUsers()
	existing, err := domain.NewUser("Jane Doe", "jane@example.com", "hash", domain.RoleUser)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), existing))

	stdout := new(bytes.Buffer)
	args := []string{"-email", "jane@example.com", "-db", testURL}
	require.NoError(t, runWith(args, new(bytes.Buffer), stdout, new(bytes.Buffer), memoryOpener(users)))
	assert.Contains(t, stdout.String(), "role changed from user to admin")

	user, err := users.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	stdout.Reset()
	require.NoError(t, runWith(args, new(bytes.Buffer), stdout, new(bytes.Buffer), memoryOpener(users)))
	assert.Contains(t, stdout.String(), "already has role admin")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing email", []string{"-name", "Jane"}, "missing required flags: email"},
		{"bad role", []string{"-email", "a@b.com", "-role", "owner"}, "invalid role"},
		{
			"weak password",
			[]string{"-name", "Jane Doe", "-email", "jane@example.com", "-password", "password", "-db", testURL},
			domain.MsgWeakPassword,
		},
		{
			"bad name",
			[]string{"-name", "J4ne", "-email", "jane@example.com", "-password", "Passw0rd!", "-db", testURL},
			domain.MsgInvalidName,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := runWith(tc.args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer), memoryOpener(newUsers()))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRun_OpenFailure(t *testing.T) {
	failing := func(context.Context, string) (store.UserStore, func() error, error) {
		return nil, nil, errors.New("connection refused")
	}
	args := []string{"-email", "jane@example.com", "-db", testURL}
	err := runWith(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer), failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database: connection refused")
}
