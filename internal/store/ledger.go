package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
)

// LedgerStore persists the ledger entries of a single domain.Kind. One
// instance exists per kind.
type LedgerStore interface {
	// Kind reports which ledger this store holds.
	Kind() domain.Kind

	// Create saves a new entry.
	Create(ctx context.Context, entry *domain.LedgerEntry) error

	// GetByID retrieves an entry regardless of owner.
	// Returns ErrEntryNotFound if the entry does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)

	// ListByOwner returns the owner's entries matching filter, ordered by filter.Sort.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error)

	// Update persists the mutable fields of an existing entry.
	// Returns ErrEntryNotFound if the entry does not exist.
	Update(ctx context.Context, entry *domain.LedgerEntry) error

	// Delete removes an entry by ID.
	// Returns ErrEntryNotFound if the entry does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByOwner removes every entry of the owner and returns how many
	// were removed. Deleting an owner with no entries is not an error.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)

	// SummaryByOwner aggregates the owner's entries.
	SummaryByOwner(ctx context.Context, ownerID uuid.UUID) (domain.LedgerSummary, error)

	// Totals returns the number of entries and their summed amount across all owners.
	Totals(ctx context.Context) (count int, amount float64, err error)
}
