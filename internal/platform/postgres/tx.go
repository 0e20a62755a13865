package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// NewStores builds the PostgreSQL store set over db, which may be the pool
// or a transaction.
func NewStores(db store.DBTX, logger *slog.Logger) store.Stores {
	return store.Stores{
		Users:    NewPostgresUserStore(db, logger),
		Incomes:  NewPostgresLedgerStore(db, domain.KindIncome, logger),
		Expenses: NewPostgresLedgerStore(db, domain.KindExpense, logger),
		Contacts: NewPostgresContactStore(db, logger),
	}
}

// TxRunner implements store.TxRunner with one SQL transaction per unit of work.
type TxRunner struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.TxRunner = (*TxRunner)(nil)

// NewTxRunner creates a TxRunner over the pool.
func NewTxRunner(db *sql.DB, logger *slog.Logger) *TxRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &TxRunner{db: db, logger: logger}
}

// RunInTx implements store.TxRunner.
func (r *TxRunner) RunInTx(ctx context.Context, fn store.StoresFn) error {
	return store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, NewStores(tx, r.logger))
	})
}
