package memory

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// DB holds every collection of the in-memory backend.
type DB struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*domain.User
	ledgers  map[domain.Kind]map[uuid.UUID]*domain.LedgerEntry
	contacts map[uuid.UUID]*domain.ContactMessage
	logger   *slog.Logger
}

var _ store.TxRunner = (*DB)(nil)

// New returns an empty database.
func New(logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{
		users: make(map[uuid.UUID]*domain.User),
		ledgers: map[domain.Kind]map[uuid.UUID]*domain.LedgerEntry{
			domain.KindIncome:  make(map[uuid.UUID]*domain.LedgerEntry),
			domain.KindExpense: make(map[uuid.UUID]*domain.LedgerEntry),
		},
		contacts: make(map[uuid.UUID]*domain.ContactMessage),
		logger:   logger.With(slog.String("component", "memory_store")),
	}
}

// Stores returns stores that lock the database on every call.
func (db *DB) Stores() store.Stores {
	return db.stores(false)
}

func (db *DB) stores(inTx bool) store.Stores {
	v := view{db: db, inTx: inTx}
	return store.Stores{
		Users:    &UserStore{view: v},
		Incomes:  &LedgerStore{view: v, kind: domain.KindIncome},
		Expenses: &LedgerStore{view: v, kind: domain.KindExpense},
		Contacts: &ContactStore{view: v},
	}
}

// RunInTx runs fn with exclusive access to the database. If fn returns an
// error or panics, every change it made is discarded.
func (db *DB) RunInTx(ctx context.Context, fn store.StoresFn) (err error) {
	log := logger.FromContextOrDefault(ctx, db.logger)

	db.mu.Lock()
	defer db.mu.Unlock()

	snap := db.snapshot()
	defer func() {
		if p := recover(); p != nil {
			db.restore(snap)
			log.Error("rolled back transaction after panic", slog.Any("panic", p))
			// ALLOW-PANIC: propagating caught panic from transaction
			panic(p)
		}
		if err != nil {
			db.restore(snap)
			log.Debug("rolled back transaction due to error", slog.String("error", err.Error()))
		}
	}()

	return fn(ctx, db.stores(true))
}

type snapshot struct {
	users    map[uuid.UUID]*domain.User
	ledgers  map[domain.Kind]map[uuid.UUID]*domain.LedgerEntry
	contacts map[uuid.UUID]*domain.ContactMessage
}

// snapshot copies the maps. Stored values are never mutated in place, so
// sharing the pointers is safe.
func (db *DB) snapshot() snapshot {
	s := snapshot{
		users:    make(map[uuid.UUID]*domain.User, len(db.users)),
		ledgers:  make(map[domain.Kind]map[uuid.UUID]*domain.LedgerEntry, len(db.ledgers)),
		contacts: make(map[uuid.UUID]*domain.ContactMessage, len(db.contacts)),
	}
	for k, v := range db.users {
		s.users[k] = v
	}
	for kind, entries := range db.ledgers {
		m := make(map[uuid.UUID]*domain.LedgerEntry, len(entries))
		for k, v := range entries {
			m[k] = v
		}
		s.ledgers[kind] = m
	}
	for k, v := range db.contacts {
		s.contacts[k] = v
	}
	return s
}

func (db *DB) restore(s snapshot) {
	db.users = s.users
	db.ledgers = s.ledgers
	db.contacts = s.contacts
}

// view is the shared access handle of the stores. Stores handed out by
// RunInTx run under the transaction's lock and must not lock again.
type view struct {
	db   *DB
	inTx bool
}

func (v view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.db.mu.Lock()
	return v.db.mu.Unlock
}

func (v view) rlock() func() {
	if v.inTx {
		return func() {}
	}
	v.db.mu.RLock()
	return v.db.mu.RUnlock
}

// newerFirst orders by creation time, newest first. Rows created in the same
// clock tick fall back to id order.
func newerFirst(aCreated time.Time, aID uuid.UUID, bCreated time.Time, bID uuid.UUID) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}
	return bytes.Compare(aID[:], bID[:]) > 0
}
