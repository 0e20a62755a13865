package store

import (
	"context"

	"github.com/phrazzld/expenseflow-api/internal/domain"
)

// Stores groups the stores a unit of work may touch.
type Stores struct {
	Users    UserStore
	Incomes  LedgerStore
	Expenses LedgerStore
	Contacts ContactStore
}

// Ledger returns the ledger store for the given kind, or nil for an unknown kind.
func (s Stores) Ledger(kind domain.Kind) LedgerStore {
	switch kind {
	case domain.KindIncome:
		return s.Incomes
	case domain.KindExpense:
		return s.Expenses
	default:
		return nil
	}
}

// StoresFn is a unit of work executed against a transactional set of stores.
type StoresFn func(ctx context.Context, stores Stores) error

// TxRunner runs a unit of work atomically. Every store handed to fn shares
// the same transaction; fn returning an error rolls the whole unit back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn StoresFn) error
}
