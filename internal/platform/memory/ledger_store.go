package memory

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// LedgerStore implements store.LedgerStore for one kind.
type LedgerStore struct {
	view
	kind domain.Kind
}

var _ store.LedgerStore = (*LedgerStore)(nil)

func copyEntry(e *domain.LedgerEntry) *domain.LedgerEntry {
	c := *e
	return &c
}

func (s *LedgerStore) entries() map[uuid.UUID]*domain.LedgerEntry {
	return s.db.ledgers[s.kind]
}

// Kind implements store.LedgerStore.
func (s *LedgerStore) Kind() domain.Kind {
	return s.kind
}

// Create implements store.LedgerStore.
func (s *LedgerStore) Create(_ context.Context, entry *domain.LedgerEntry) error {
	defer s.lock()()

	if _, ok := s.entries()[entry.ID]; ok {
		return store.ErrDuplicate
	}
	c := copyEntry(entry)
	c.Kind = s.kind
	s.entries()[entry.ID] = c
	return nil
}

// GetByID implements store.LedgerStore.
func (s *LedgerStore) GetByID(_ context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	defer s.rlock()()

	e, ok := s.entries()[id]
	if !ok {
		return nil, store.ErrEntryNotFound
	}
	return copyEntry(e), nil
}

// ListByOwner implements store.LedgerStore.
func (s *LedgerStore) ListByOwner(
	_ context.Context,
	ownerID uuid.UUID,
	filter domain.LedgerFilter,
) ([]*domain.LedgerEntry, error) {
	defer s.rlock()()

	out := make([]*domain.LedgerEntry, 0)
	for _, e := range s.entries() {
		if e.UserID == ownerID && filter.Matches(e) {
			out = append(out, copyEntry(e))
		}
	}
	sortEntries(out, filter.Sort)
	return out, nil
}

func sortEntries(entries []*domain.LedgerEntry, order domain.LedgerSort) {
	var less func(a, b *domain.LedgerEntry) bool
	switch order {
	case domain.SortAmountAsc:
		less = func(a, b *domain.LedgerEntry) bool { return a.Amount < b.Amount }
	case domain.SortAmountDesc:
		less = func(a, b *domain.LedgerEntry) bool { return a.Amount > b.Amount }
	case domain.SortDateAsc:
		less = func(a, b *domain.LedgerEntry) bool { return a.Date.Before(b.Date) }
	default:
		less = func(a, b *domain.LedgerEntry) bool { return a.Date.After(b.Date) }
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if less(entries[i], entries[j]) {
			return true
		}
		if less(entries[j], entries[i]) {
			return false
		}
		// Map iteration order is random; keep ties deterministic.
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return bytes.Compare(entries[i].ID[:], entries[j].ID[:]) < 0
	})
}

// Update implements store.LedgerStore.
func (s *LedgerStore) Update(_ context.Context, entry *domain.LedgerEntry) error {
	defer s.lock()()

	existing, ok := s.entries()[entry.ID]
	if !ok {
		return store.ErrEntryNotFound
	}
	updated := copyEntry(existing)
	updated.Category = entry.Category
	updated.Amount = entry.Amount
	updated.Description = entry.Description
	updated.Date = entry.Date
	updated.UpdatedAt = time.Now().UTC()
	s.entries()[entry.ID] = updated
	entry.UpdatedAt = updated.UpdatedAt
	return nil
}

// Delete implements store.LedgerStore.
func (s *LedgerStore) Delete(_ context.Context, id uuid.UUID) error {
	defer s.lock()()

	if _, ok := s.entries()[id]; !ok {
		return store.ErrEntryNotFound
	}
	delete(s.entries(), id)
	return nil
}

// DeleteByOwner implements store.LedgerStore.
func (s *LedgerStore) DeleteByOwner(_ context.Context, ownerID uuid.UUID) (int, error) {
	defer s.lock()()

	n := 0
	for id, e := range s.entries() {
		if e.UserID == ownerID {
			delete(s.entries(), id)
			n++
		}
	}
	return n, nil
}

// SummaryByOwner implements store.LedgerStore.
func (s *LedgerStore) SummaryByOwner(_ context.Context, ownerID uuid.UUID) (domain.LedgerSummary, error) {
	defer s.rlock()()

	owned := make([]*domain.LedgerEntry, 0)
	for _, e := range s.entries() {
		if e.UserID == ownerID {
			owned = append(owned, e)
		}
	}
	return domain.Summarize(owned), nil
}

// Totals implements store.LedgerStore.
func (s *LedgerStore) Totals(_ context.Context) (int, float64, error) {
	defer s.rlock()()

	var amount float64
	for _, e := range s.entries() {
		amount += e.Amount
	}
	return len(s.entries()), amount, nil
}
