package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/events"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// LedgerInput carries a new income or expense.
type LedgerInput struct {
	Category    string    `json:"category"    validate:"required" msg:"Please fill all required fields"`
	Amount      float64   `json:"amount"      validate:"required" msg:"Please fill all required fields"`
	Description string    `json:"description" validate:"required" msg:"Please fill all required fields"`
	Date        time.Time `json:"date"`
}

// LedgerService manages the entries of one ledger kind on behalf of their owners.
type LedgerService struct {
	entries store.LedgerStore
	events  events.EventEmitter
	logger  *slog.Logger
}

// NewLedgerService creates a LedgerService over entries. The ledger kind is
// taken from the store.
func NewLedgerService(entries store.LedgerStore, emitter events.EventEmitter, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{
		entries: entries,
		events:  emitter,
		logger:  logger.With("component", string(entries.Kind())+"_service"),
	}
}

// Kind reports which ledger the service manages.
func (s *LedgerService) Kind() domain.Kind {
	return s.entries.Kind()
}

// Create records a new entry owned by ownerID.
func (s *LedgerService) Create(ctx context.Context, ownerID uuid.UUID, in LedgerInput) (*domain.LedgerEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, domain.NewValidationError("amount", domain.MsgAmountPositive, nil)
	}

	entry, err := domain.NewLedgerEntry(s.Kind(), ownerID, in.Category, in.Amount, in.Description, in.Date)
	if err != nil {
		return nil, err
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.Kind(), err)
	}

	log.Debug("ledger entry created",
		"kind", s.Kind(),
		"entry_id", entry.ID,
		"user_id", ownerID)
	emit(ctx, s.events, s.logger, createdEventType(s.Kind()), events.LedgerPayload{
		EntryID:  entry.ID,
		UserID:   ownerID,
		Category: entry.Category,
		Amount:   entry.Amount,
	})

	return entry, nil
}

// List returns the owner's entries matching filter.
func (s *LedgerService) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter domain.LedgerFilter,
) ([]*domain.LedgerEntry, error) {
	entries, err := s.entries.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s entries: %w", s.Kind(), err)
	}
	return entries, nil
}

// Get returns an entry if ownerID owns it. A missing entry is reported before
// a foreign one.
func (s *LedgerService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.LedgerEntry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.Kind(), err)
	}
	if entry.UserID != ownerID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("ledger entry owned by another user",
			"kind", s.Kind(),
			"entry_id", id,
			"user_id", ownerID)
		return nil, ErrNotOwned
	}
	return entry, nil
}

// Update applies patch to an entry owned by ownerID. Zero fields of patch
// keep their current value.
func (s *LedgerService) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch domain.LedgerPatch,
) (*domain.LedgerEntry, error) {
	entry, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if !patch.Apply(entry) {
		return entry, nil
	}
	entry.UpdatedAt = time.Now().UTC()

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", s.Kind(), err)
	}
	return entry, nil
}

// Delete removes an entry owned by ownerID.
func (s *LedgerService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete %s: %w", s.Kind(), err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("ledger entry deleted",
		"kind", s.Kind(),
		"entry_id", id,
		"user_id", ownerID)
	return nil
}

// Summary aggregates the owner's entries.
func (s *LedgerService) Summary(ctx context.Context, ownerID uuid.UUID) (domain.LedgerSummary, error) {
	summary, err := s.entries.SummaryByOwner(ctx, ownerID)
	if err != nil {
		return domain.LedgerSummary{}, fmt.Errorf("failed to summarize %s entries: %w", s.Kind(), err)
	}
	if summary.CategoryBreakdown == nil {
		summary.CategoryBreakdown = map[string]float64{}
	}
	return summary, nil
}

func createdEventType(kind domain.Kind) string {
	if kind == domain.KindExpense {
		return events.TypeExpenseCreated
	}
	return events.TypeIncomeCreated
}
