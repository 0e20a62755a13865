package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
)

// ContactStore defines the interface for contact message persistence.
type ContactStore interface {
	// Create saves a new message.
	Create(ctx context.Context, msg *domain.ContactMessage) error

	// GetByID retrieves a message.
	// Returns ErrContactNotFound if the message does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error)

	// ListByOwner returns the owner's messages, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.ContactMessage, error)

	// ListWithSubmitter returns every message joined with its sender, newest first.
	ListWithSubmitter(ctx context.Context) ([]*domain.ContactWithSubmitter, error)

	// UpdateStatus sets the status of a message.
	// Returns ErrContactNotFound if the message does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error

	// DeleteByOwner removes every message of the owner and returns how many
	// were removed.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)

	// CountByStatus returns the number of messages with the given status.
	CountByStatus(ctx context.Context, status domain.ContactStatus) (int, error)
}
