package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/events"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
	"github.com/phrazzld/expenseflow-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// AdminService exposes cross-user operations to administrators.
type AdminService struct {
	stores   store.Stores
	txRunner store.TxRunner
	events   events.EventEmitter
	logger   *slog.Logger
}

// NewAdminService creates an AdminService. stores serve reads; txRunner
// provides the transactional stores used for cascade deletes.
func NewAdminService(
	stores store.Stores,
	txRunner store.TxRunner,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{
		stores:   stores,
		txRunner: txRunner,
		events:   emitter,
		logger:   logger.With("component", "admin_service"),
	}
}

// ListUsers returns every account, newest first.
func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.stores.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes targetID together with every income, expense and contact
// message it owns. The deletions commit or roll back together.
func (s *AdminService) DeleteUser(ctx context.Context, targetID, adminID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	target, err := s.stores.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if targetID == adminID {
		return ErrSelfDeletion
	}

	var removed struct{ incomes, expenses, contacts int }
	err = s.txRunner.RunInTx(ctx, func(ctx context.Context, tx store.Stores) error {
		if err := tx.Users.Delete(ctx, targetID); err != nil {
			return err
		}
		var err error
		if removed.incomes, err = tx.Incomes.DeleteByOwner(ctx, targetID); err != nil {
			return err
		}
		if removed.expenses, err = tx.Expenses.DeleteByOwner(ctx, targetID); err != nil {
			return err
		}
		if removed.contacts, err = tx.Contacts.DeleteByOwner(ctx, targetID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info("user deleted",
		"user_id", targetID,
		"admin_id", adminID,
		"incomes", removed.incomes,
		"expenses", removed.expenses,
		"contacts", removed.contacts)
	emit(ctx, s.events, s.logger, events.TypeUserDeleted, events.UserPayload{
		UserID: target.ID,
		Email:  target.Email,
		Role:   string(target.Role),
	})
	return nil
}

// ListContacts returns every contact message with its sender, newest first.
func (s *AdminService) ListContacts(ctx context.Context) ([]*domain.ContactWithSubmitter, error) {
	contacts, err := s.stores.Contacts.ListWithSubmitter(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return contacts, nil
}

// UpdateContactStatus sets the status of a contact message. An empty status
// keeps the current one.
func (s *AdminService) UpdateContactStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
) (*domain.ContactMessage, error) {
	msg, err := s.stores.Contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrContactNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}

	if status == "" {
		return msg, nil
	}
	next := domain.ContactStatus(status)
	if !next.Valid() {
		return nil, domain.NewValidationError("status", domain.MsgInvalidStatus, domain.ErrInvalidContactStatus)
	}

	if err := s.stores.Contacts.UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, store.ErrContactNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update contact message: %w", err)
	}

	updated, err := s.stores.Contacts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload contact message: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("contact status updated",
		"contact_id", id,
		"status", next)
	return updated, nil
}

// Stats gathers the dashboard counters concurrently.
func (s *AdminService) Stats(ctx context.Context) (domain.AdminStats, error) {
	var stats domain.AdminStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.stores.Users.Count(ctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		stats.TotalUsers = n
		return nil
	})
	g.Go(func() error {
		n, amount, err := s.stores.Incomes.Totals(ctx)
		if err != nil {
			return fmt.Errorf("income totals: %w", err)
		}
		stats.TotalIncomes, stats.TotalIncomeAmount = n, amount
		return nil
	})
	g.Go(func() error {
		n, amount, err := s.stores.Expenses.Totals(ctx)
		if err != nil {
			return fmt.Errorf("expense totals: %w", err)
		}
		stats.TotalExpenses, stats.TotalExpenseAmount = n, amount
		return nil
	})
	g.Go(func() error {
		n, err := s.stores.Contacts.CountByStatus(ctx, domain.ContactPending)
		if err != nil {
			return fmt.Errorf("count pending contacts: %w", err)
		}
		stats.PendingContacts = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.AdminStats{}, fmt.Errorf("failed to gather stats: %w", err)
	}
	return stats, nil
}
