package domain

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the two ledgers a user keeps.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is a known ledger kind.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Title returns the capitalized kind used in user-facing messages.
func (k Kind) Title() string {
	switch k {
	case KindIncome:
		return "Income"
	case KindExpense:
		return "Expense"
	default:
		return string(k)
	}
}

// LedgerEntry is a single income or expense transaction.
type LedgerEntry struct {
	ID          uuid.UUID `json:"id"`
	Kind        Kind      `json:"kind"`
	UserID      uuid.UUID `json:"userId"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewLedgerEntry creates a LedgerEntry owned by userID. A zero date defaults
// to the creation time.
func NewLedgerEntry(
	kind Kind,
	userID uuid.UUID,
	category string,
	amount float64,
	description string,
	date time.Time,
) (*LedgerEntry, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	if userID == uuid.Nil {
		return nil, NewValidationError("userId", "is required", ErrInvalidID)
	}

	now := time.Now().UTC()
	if date.IsZero() {
		date = now
	}

	return &LedgerEntry{
		ID:          uuid.New(),
		Kind:        kind,
		UserID:      userID,
		Category:    category,
		Amount:      amount,
		Description: description,
		Date:        date.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// LedgerPatch carries a partial update. Zero values mean "keep the current
// value", so an update can never reset a field to zero or empty.
type LedgerPatch struct {
	Category    string
	Amount      float64
	Description string
	Date        time.Time
}

// Apply replaces each field of e whose patch value is non-zero and reports
// whether anything changed.
func (p LedgerPatch) Apply(e *LedgerEntry) bool {
	changed := false
	if p.Category != "" {
		e.Category = p.Category
		changed = true
	}
	if p.Amount != 0 {
		e.Amount = p.Amount
		changed = true
	}
	if p.Description != "" {
		e.Description = p.Description
		changed = true
	}
	if !p.Date.IsZero() {
		e.Date = p.Date.UTC()
		changed = true
	}
	return changed
}

// LedgerSort selects the ordering of a ledger listing.
type LedgerSort string

const (
	SortAmountAsc  LedgerSort = "amount-asc"
	SortAmountDesc LedgerSort = "amount-desc"
	SortDateAsc    LedgerSort = "date-asc"
	SortDateDesc   LedgerSort = "date-desc"
)

// ParseLedgerSort maps a query value to a LedgerSort. Unknown or empty values
// fall back to newest first.
func ParseLedgerSort(s string) LedgerSort {
	switch LedgerSort(s) {
	case SortAmountAsc, SortAmountDesc, SortDateAsc:
		return LedgerSort(s)
	default:
		return SortDateDesc
	}
}

// LedgerFilter narrows a ledger listing. Nil bounds are open; both bounds are
// inclusive.
type LedgerFilter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Sort      LedgerSort
}

// Matches reports whether e satisfies the category and date bounds of f.
func (f LedgerFilter) Matches(e *LedgerEntry) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.StartDate != nil && e.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.Date.After(*f.EndDate) {
		return false
	}
	return true
}

// LedgerSummary aggregates one user's ledger of one kind.
type LedgerSummary struct {
	Total             float64            `json:"total"`
	Count             int                `json:"count"`
	CategoryBreakdown map[string]float64 `json:"categoryBreakdown"`
}

// Summarize folds entries into a LedgerSummary.
func Summarize(entries []*LedgerEntry) LedgerSummary {
	summary := LedgerSummary{CategoryBreakdown: make(map[string]float64)}
	for _, e := range entries {
		summary.Total += e.Amount
		summary.Count++
		summary.CategoryBreakdown[e.Category] += e.Amount
	}
	return summary
}
