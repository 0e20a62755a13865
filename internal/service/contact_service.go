package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/events"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// ContactInput carries a contact form submission.
type ContactInput struct {
	Name    string `json:"name"    validate:"personname"    msg:"Name must be 2-50 characters and contain only letters and spaces"`
	Email   string `json:"email"   validate:"legacyemail"   msg:"Please enter a valid email address"`
	Subject string `json:"subject" validate:"trimmedmin=3"  msg:"Subject must be at least 3 characters"`
	Message string `json:"message" validate:"trimmedmin=10" msg:"Message must be at least 10 characters"`
}

// ContactService accepts contact messages from signed-in users.
type ContactService struct {
	contacts store.ContactStore
	events   events.EventEmitter
	logger   *slog.Logger
}

// NewContactService creates a ContactService.
func NewContactService(contacts store.ContactStore, emitter events.EventEmitter, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{
		contacts: contacts,
		events:   emitter,
		logger:   logger.With("component", "contact_service"),
	}
}

// Submit stores a pending message from ownerID. Text is stored as submitted.
func (s *ContactService) Submit(ctx context.Context, ownerID uuid.UUID, in ContactInput) (*domain.ContactMessage, error) {
	if err := domain.ValidateStruct(in); err != nil {
		return nil, err
	}

	msg := domain.NewContactMessage(ownerID, in.Name, in.Email, in.Subject, in.Message)
	if err := s.contacts.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create contact message: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("contact message submitted",
		"contact_id", msg.ID,
		"user_id", ownerID)
	emit(ctx, s.events, s.logger, events.TypeContactSubmitted, events.ContactPayload{
		ContactID: msg.ID,
		UserID:    ownerID,
		Subject:   msg.Subject,
	})

	return msg, nil
}

// ListMine returns the messages ownerID has sent, newest first.
func (s *ContactService) ListMine(ctx context.Context, ownerID uuid.UUID) ([]*domain.ContactMessage, error) {
	msgs, err := s.contacts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return msgs, nil
}
