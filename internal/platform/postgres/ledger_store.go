package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// ledgerTables maps each kind to its table. Table names are interpolated
// into SQL, so only values from this map may reach a query.
var ledgerTables = map[domain.Kind]string{
	domain.KindIncome:  "incomes",
	domain.KindExpense: "expenses",
}

var ledgerOrder = map[domain.LedgerSort]string{
	domain.SortAmountAsc:  "amount ASC",
	domain.SortAmountDesc: "amount DESC",
	domain.SortDateAsc:    "date ASC",
	domain.SortDateDesc:   "date DESC",
}

const ledgerColumns = `id, user_id, category, amount, description, date, created_at, updated_at`

// PostgresLedgerStore implements store.LedgerStore for one kind.
type PostgresLedgerStore struct {
	db     store.DBTX
	kind   domain.Kind
	table  string
	logger *slog.Logger
}

var _ store.LedgerStore = (*PostgresLedgerStore)(nil)

// NewPostgresLedgerStore creates the store for kind. It panics on an unknown
// kind or a nil db.
func NewPostgresLedgerStore(db store.DBTX, kind domain.Kind, logger *slog.Logger) *PostgresLedgerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	table, ok := ledgerTables[kind]
	if !ok {
		panic(fmt.Sprintf("unknown ledger kind %q", kind))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLedgerStore{
		db:     db,
		kind:   kind,
		table:  table,
		logger: logger.With(slog.String("component", table+"_store")),
	}
}

// Kind implements store.LedgerStore.
func (s *PostgresLedgerStore) Kind() domain.Kind {
	return s.kind
}

func (s *PostgresLedgerStore) scan(row rowScanner) (*domain.LedgerEntry, error) {
	e := domain.LedgerEntry{Kind: s.kind}
	err := row.Scan(&e.ID, &e.UserID, &e.Category, &e.Amount, &e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PostgresLedgerStore) storeErr(op, msg string, err error) error {
	return store.NewStoreError(string(s.kind), op, msg, MapError(err))
}

// Create implements store.LedgerStore.
func (s *PostgresLedgerStore) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, s.table, ledgerColumns)
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Category, entry.Amount, entry.Description,
		entry.Date, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()),
			slog.String("user_id", entry.UserID.String()))
		return s.storeErr("create", "failed to insert entry", err)
	}

	log.Debug("entry created",
		slog.String("entry_id", entry.ID.String()),
		slog.String("user_id", entry.UserID.String()))
	return nil
}

// GetByID implements store.LedgerStore.
func (s *PostgresLedgerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, ledgerColumns, s.table)
	e, err := s.scan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrEntryNotFound
		}
		return nil, s.storeErr("get_by_id", "failed to load entry", err)
	}
	return e, nil
}

// ListByOwner implements store.LedgerStore.
func (s *PostgresLedgerStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter domain.LedgerFilter,
) ([]*domain.LedgerEntry, error) {
	conds := []string{"user_id = $1"}
	args := []any{ownerID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.StartDate != nil {
		add("date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("date <= $%d", *filter.EndDate)
	}

	order, ok := ledgerOrder[filter.Sort]
	if !ok {
		order = ledgerOrder[domain.SortDateDesc]
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s, created_at ASC, id ASC`,
		ledgerColumns, s.table, strings.Join(conds, " AND "), order)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.storeErr("list_by_owner", "failed to query entries", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*domain.LedgerEntry, 0)
	for rows.Next() {
		e, err := s.scan(rows)
		if err != nil {
			return nil, s.storeErr("list_by_owner", "failed to scan entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storeErr("list_by_owner", "failed to iterate entries", err)
	}
	return entries, nil
}

// Update implements store.LedgerStore.
func (s *PostgresLedgerStore) Update(ctx context.Context, entry *domain.LedgerEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(
		`UPDATE %s SET category = $1, amount = $2, description = $3, date = $4, updated_at = $5 WHERE id = $6`,
		s.table)
	result, err := s.db.ExecContext(ctx, query,
		entry.Category, entry.Amount, entry.Description, entry.Date, entry.UpdatedAt, entry.ID)
	if err != nil {
		return s.storeErr("update", "failed to update entry", err)
	}
	return CheckRowsAffected(result, store.ErrEntryNotFound)
}

// Delete implements store.LedgerStore.
func (s *PostgresLedgerStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table), id)
	if err != nil {
		return s.storeErr("delete", "failed to delete entry", err)
	}
	return CheckRowsAffected(result, store.ErrEntryNotFound)
}

// DeleteByOwner implements store.LedgerStore.
func (s *PostgresLedgerStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, s.table), ownerID)
	if err != nil {
		return 0, s.storeErr("delete_by_owner", "failed to delete entries", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// SummaryByOwner implements store.LedgerStore.
func (s *PostgresLedgerStore) SummaryByOwner(ctx context.Context, ownerID uuid.UUID) (domain.LedgerSummary, error) {
	summary := domain.LedgerSummary{CategoryBreakdown: make(map[string]float64)}

	query := fmt.Sprintf(
		`SELECT category, SUM(amount), COUNT(*) FROM %s WHERE user_id = $1 GROUP BY category`,
		s.table)
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return summary, s.storeErr("summary", "failed to aggregate entries", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var category string
		var total float64
		var count int
		if err := rows.Scan(&category, &total, &count); err != nil {
			return summary, s.storeErr("summary", "failed to scan aggregate", err)
		}
		summary.CategoryBreakdown[category] = total
		summary.Total += total
		summary.Count += count
	}
	if err := rows.Err(); err != nil {
		return summary, s.storeErr("summary", "failed to iterate aggregates", err)
	}
	return summary, nil
}

// Totals implements store.LedgerStore.
func (s *PostgresLedgerStore) Totals(ctx context.Context) (int, float64, error) {
	var count int
	var amount float64
	query := fmt.Sprintf(`SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM %s`, s.table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&count, &amount); err != nil {
		return 0, 0, s.storeErr("totals", "failed to aggregate entries", err)
	}
	return count, amount, nil
}
