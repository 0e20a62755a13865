package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockLedgerStore is a mock of store.LedgerStore for use with testify/mock.
// LedgerKind is returned from Kind without recording a call.
type TestifyMockLedgerStore struct {
	mock.Mock
	LedgerKind domain.Kind
}

var _ store.LedgerStore = (*TestifyMockLedgerStore)(nil)

// Kind implements store.LedgerStore.Kind
func (m *TestifyMockLedgerStore) Kind() domain.Kind {
	return m.LedgerKind
}

// Create is a mock implementation of store.LedgerStore.Create
func (m *TestifyMockLedgerStore) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// GetByID is a mock implementation of store.LedgerStore.GetByID
func (m *TestifyMockLedgerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if entry, ok := args.Get(0).(*domain.LedgerEntry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByOwner is a mock implementation of store.LedgerStore.ListByOwner
func (m *TestifyMockLedgerStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter domain.LedgerFilter,
) ([]*domain.LedgerEntry, error) {
	args := m.Called(ctx, ownerID, filter)
	if entries, ok := args.Get(0).([]*domain.LedgerEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.LedgerStore.Update
func (m *TestifyMockLedgerStore) Update(ctx context.Context, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Delete is a mock implementation of store.LedgerStore.Delete
func (m *TestifyMockLedgerStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DeleteByOwner is a mock implementation of store.LedgerStore.DeleteByOwner
func (m *TestifyMockLedgerStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

// SummaryByOwner is a mock implementation of store.LedgerStore.SummaryByOwner
func (m *TestifyMockLedgerStore) SummaryByOwner(ctx context.Context, ownerID uuid.UUID) (domain.LedgerSummary, error) {
	args := m.Called(ctx, ownerID)
	summary, _ := args.Get(0).(domain.LedgerSummary)
	return summary, args.Error(1)
}

// Totals is a mock implementation of store.LedgerStore.Totals
func (m *TestifyMockLedgerStore) Totals(ctx context.Context) (int, float64, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Get(1).(float64), args.Error(2)
}
