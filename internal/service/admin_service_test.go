package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/events"
	"github.com/phrazzld/expenseflow-api/internal/mocks"
	"github.com/phrazzld/expenseflow-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// failingTxRunner runs fn against stores whose expense ledger always fails.
type failingTxRunner struct {
	runner store.TxRunner
	err    error
}

func (r failingTxRunner) RunInTx(ctx context.Context, fn store.StoresFn) error {
	return r.runner.RunInTx(ctx, func(ctx context.Context, tx store.Stores) error {
		expenses := &mocks.TestifyMockLedgerStore{LedgerKind: domain.KindExpense}
		expenses.On("DeleteByOwner", mock.Anything, mock.Anything).Return(0, r.err)
		tx.Expenses = expenses
		return fn(ctx, tx)
	})
}

func TestAdminService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to owned records", func(t *testing.T) {
		f := newFixture(t)
		admin := f.register(t, "Admin", "admin@expense.com")
		bob := f.register(t, "Bob", "bob@x.com")
		carol := f.register(t, "Carol", "carol@x.com")

		_, err := f.incomes.Create(ctx, bob.ID, LedgerInput{Category: "Salary", Amount: 10, Description: "x"})
		require.NoError(t, err)
		_, err = f.expenses.Create(ctx, bob.ID, LedgerInput{Category: "Food", Amount: 5, Description: "x"})
		require.NoError(t, err)
		_, err = f.expenses.Create(ctx, carol.ID, LedgerInput{Category: "Food", Amount: 7, Description: "x"})
		require.NoError(t, err)
		_, err = f.contacts.Submit(ctx, bob.ID, validContact())
		require.NoError(t, err)

		require.NoError(t, f.admin.DeleteUser(ctx, bob.ID, admin.ID))

		_, err = f.stores.Users.GetByID(ctx, bob.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		incomes, err := f.incomes.List(ctx, bob.ID, domain.LedgerFilter{})
		require.NoError(t, err)
		assert.Empty(t, incomes)
		expenses, err := f.expenses.List(ctx, bob.ID, domain.LedgerFilter{})
		require.NoError(t, err)
		assert.Empty(t, expenses)
		contacts, err := f.contacts.ListMine(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, contacts)

		kept, err := f.expenses.List(ctx, carol.ID, domain.LedgerFilter{})
		require.NoError(t, err)
		assert.Len(t, kept, 1)

		types := f.recorder.Types()
		assert.Equal(t, events.TypeUserDeleted, types[len(types)-1])
	})

	t.Run("missing user", func(t *testing.T) {
		f := newFixture(t)
		admin := f.register(t, "Admin", "admin@expense.com")

		err := f.admin.DeleteUser(ctx, uuid.New(), admin.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("self deletion", func(t *testing.T) {
		f := newFixture(t)
		admin := f.register(t, "Admin", "admin@expense.com")

		assert.ErrorIs(t, f.admin.DeleteUser(ctx, admin.ID, admin.ID), ErrSelfDeletion)

		_, err := f.stores.Users.GetByID(ctx, admin.ID)
		assert.NoError(t, err)
	})

	t.Run("failure rolls back every deletion", func(t *testing.T) {
		f := newFixture(t)
		admin := f.register(t, "Admin", "admin@expense.com")
		bob := f.register(t, "Bob", "bob@x.com")
		_, err := f.incomes.Create(ctx, bob.ID, LedgerInput{Category: "Salary", Amount: 10, Description: "x"})
		require.NoError(t, err)

		boom := errors.New("boom")
		f.admin.txRunner = failingTxRunner{runner: f.db, err: boom}

		err = f.admin.DeleteUser(ctx, bob.ID, admin.ID)
		assert.ErrorIs(t, err, boom)

		_, err = f.stores.Users.GetByID(ctx, bob.ID)
		assert.NoError(t, err, "user restored")
		incomes, err := f.incomes.List(ctx, bob.ID, domain.LedgerFilter{})
		require.NoError(t, err)
		assert.Len(t, incomes, 1, "incomes restored")
	})
}

func TestAdminService_Contacts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bob := f.register(t, "Bob", "bob@x.com")

	msg, err := f.contacts.Submit(ctx, bob.ID, validContact())
	require.NoError(t, err)
	orphan, err := f.contacts.Submit(ctx, uuid.New(), validContact())
	require.NoError(t, err)

	t.Run("list joins submitters", func(t *testing.T) {
		all, err := f.admin.ListContacts(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)

		byID := map[uuid.UUID]*domain.ContactWithSubmitter{}
		for _, c := range all {
			byID[c.ID] = c
		}
		require.NotNil(t, byID[msg.ID].User)
		assert.Equal(t, "Bob", byID[msg.ID].User.Name)
		assert.Nil(t, byID[orphan.ID].User)
	})

	t.Run("update status", func(t *testing.T) {
		updated, err := f.admin.UpdateContactStatus(ctx, msg.ID, "reviewed")
		require.NoError(t, err)
		assert.Equal(t, domain.ContactReviewed, updated.Status)
	})

	t.Run("empty status keeps current", func(t *testing.T) {
		updated, err := f.admin.UpdateContactStatus(ctx, msg.ID, "")
		require.NoError(t, err)
		assert.Equal(t, domain.ContactReviewed, updated.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := f.admin.UpdateContactStatus(ctx, msg.ID, "archived")
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, domain.MsgInvalidStatus, vErr.Message)
		assert.ErrorIs(t, err, domain.ErrInvalidContactStatus)
	})

	t.Run("missing message", func(t *testing.T) {
		_, err := f.admin.UpdateContactStatus(ctx, uuid.New(), "reviewed")
		assert.ErrorIs(t, err, store.ErrContactNotFound)
	})
}

func TestAdminService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bob := f.register(t, "Bob", "bob@x.com")
	f.register(t, "Carol", "carol@x.com")

	_, err := f.incomes.Create(ctx, bob.ID, LedgerInput{Category: "Salary", Amount: 100, Description: "x"})
	require.NoError(t, err)
	_, err = f.incomes.Create(ctx, bob.ID, LedgerInput{Category: "Gift", Amount: 20.5, Description: "x"})
	require.NoError(t, err)
	_, err = f.expenses.Create(ctx, bob.ID, LedgerInput{Category: "Food", Amount: 50, Description: "x"})
	require.NoError(t, err)
	reviewed, err := f.contacts.Submit(ctx, bob.ID, validContact())
	require.NoError(t, err)
	_, err = f.contacts.Submit(ctx, bob.ID, validContact())
	require.NoError(t, err)
	_, err = f.admin.UpdateContactStatus(ctx, reviewed.ID, "reviewed")
	require.NoError(t, err)

	stats, err := f.admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.AdminStats{
		TotalUsers:         2,
		TotalIncomes:       2,
		TotalExpenses:      1,
		PendingContacts:    1,
		TotalIncomeAmount:  120.5,
		TotalExpenseAmount: 50,
	}, stats)

	users, err := f.admin.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestAdminService_StatsError(t *testing.T) {
	users := &mocks.TestifyMockUserStore{}
	countErr := errors.New("timeout")
	users.On("Count", mock.Anything).Return(0, countErr)

	f := newFixture(t)
	stores := f.stores
	stores.Users = users

	svc := NewAdminService(stores, f.db, nil, nil)
	_, err := svc.Stats(context.Background())
	assert.ErrorIs(t, err, countErr)
}
