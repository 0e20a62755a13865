package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

const contactColumns = `id, user_id, name, email, subject, message, status, created_at, updated_at`

// PostgresContactStore implements store.ContactStore.
type PostgresContactStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.ContactStore = (*PostgresContactStore)(nil)

// NewPostgresContactStore creates a new PostgreSQL contact message store.
func NewPostgresContactStore(db store.DBTX, logger *slog.Logger) *PostgresContactStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresContactStore{
		db:     db,
		logger: logger.With(slog.String("component", "contact_store")),
	}
}

func scanContact(row rowScanner, extra ...any) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	var status string
	dest := append([]any{
		&m.ID, &m.UserID, &m.Name, &m.Email, &m.Subject, &m.Message, &status, &m.CreatedAt, &m.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	m.Status = domain.ContactStatus(status)
	return &m, nil
}

// Create implements store.ContactStore.
func (s *PostgresContactStore) Create(ctx context.Context, msg *domain.ContactMessage) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_messages (`+contactColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		msg.ID, msg.UserID, msg.Name, msg.Email, msg.Subject, msg.Message, string(msg.Status),
		msg.CreatedAt, msg.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create contact message",
			slog.String("error", err.Error()),
			slog.String("user_id", msg.UserID.String()))
		return store.NewStoreError("contact", "create", "failed to insert message", MapError(err))
	}
	return nil
}

// GetByID implements store.ContactStore.
func (s *PostgresContactStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	m, err := scanContact(s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contact_messages WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrContactNotFound
		}
		return nil, store.NewStoreError("contact", "get_by_id", "failed to load message", MapError(err))
	}
	return m, nil
}

// ListByOwner implements store.ContactStore.
func (s *PostgresContactStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contact_messages WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, store.NewStoreError("contact", "list_by_owner", "failed to query messages", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	msgs := make([]*domain.ContactMessage, 0)
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, store.NewStoreError("contact", "list_by_owner", "failed to scan message", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("contact", "list_by_owner", "failed to iterate messages", err)
	}
	return msgs, nil
}

// ListWithSubmitter implements store.ContactStore.
func (s *PostgresContactStore) ListWithSubmitter(ctx context.Context) ([]*domain.ContactWithSubmitter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.user_id, c.name, c.email, c.subject, c.message, c.status, c.created_at, c.updated_at,
		       u.id, u.name, u.email
		FROM contact_messages c
		LEFT JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at DESC, c.id DESC`)
	if err != nil {
		return nil, store.NewStoreError("contact", "list_with_submitter", "failed to query messages", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	out := make([]*domain.ContactWithSubmitter, 0)
	for rows.Next() {
		var uid uuid.NullUUID
		var name, email sql.NullString
		m, err := scanContact(rows, &uid, &name, &email)
		if err != nil {
			return nil, store.NewStoreError("contact", "list_with_submitter", "failed to scan message", err)
		}
		row := &domain.ContactWithSubmitter{ContactMessage: *m}
		if uid.Valid {
			row.User = &domain.Submitter{ID: uid.UUID, Name: name.String, Email: email.String}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("contact", "list_with_submitter", "failed to iterate messages", err)
	}
	return out, nil
}

// UpdateStatus implements store.ContactStore.
func (s *PostgresContactStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE contact_messages SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return store.NewStoreError("contact", "update_status", "failed to update message", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrContactNotFound)
}

// DeleteByOwner implements store.ContactStore.
func (s *PostgresContactStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE user_id = $1`, ownerID)
	if err != nil {
		return 0, store.NewStoreError("contact", "delete_by_owner", "failed to delete messages", MapError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// CountByStatus implements store.ContactStore.
func (s *PostgresContactStore) CountByStatus(ctx context.Context, status domain.ContactStatus) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_messages WHERE status = $1`, string(status)).Scan(&n)
	if err != nil {
		return 0, store.NewStoreError("contact", "count_by_status", "failed to count messages", MapError(err))
	}
	return n, nil
}
