package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// ContactStore implements store.ContactStore.
type ContactStore struct {
	view
}

var _ store.ContactStore = (*ContactStore)(nil)

func copyContact(m *domain.ContactMessage) *domain.ContactMessage {
	c := *m
	return &c
}

func newestFirst(msgs []*domain.ContactMessage) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return newerFirst(msgs[i].CreatedAt, msgs[i].ID, msgs[j].CreatedAt, msgs[j].ID)
	})
}

// Create implements store.ContactStore.
func (s *ContactStore) Create(_ context.Context, msg *domain.ContactMessage) error {
	defer s.lock()()

	if _, ok := s.db.contacts[msg.ID]; ok {
		return store.ErrDuplicate
	}
	s.db.contacts[msg.ID] = copyContact(msg)
	return nil
}

// GetByID implements store.ContactStore.
func (s *ContactStore) GetByID(_ context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	defer s.rlock()()

	m, ok := s.db.contacts[id]
	if !ok {
		return nil, store.ErrContactNotFound
	}
	return copyContact(m), nil
}

// ListByOwner implements store.ContactStore.
func (s *ContactStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.ContactMessage, error) {
	defer s.rlock()()

	out := make([]*domain.ContactMessage, 0)
	for _, m := range s.db.contacts {
		if m.UserID == ownerID {
			out = append(out, copyContact(m))
		}
	}
	newestFirst(out)
	return out, nil
}

// ListWithSubmitter implements store.ContactStore.
func (s *ContactStore) ListWithSubmitter(_ context.Context) ([]*domain.ContactWithSubmitter, error) {
	defer s.rlock()()

	msgs := make([]*domain.ContactMessage, 0, len(s.db.contacts))
	for _, m := range s.db.contacts {
		msgs = append(msgs, m)
	}
	newestFirst(msgs)

	out := make([]*domain.ContactWithSubmitter, 0, len(msgs))
	for _, m := range msgs {
		row := &domain.ContactWithSubmitter{ContactMessage: *m}
		if u, ok := s.db.users[m.UserID]; ok {
			row.User = &domain.Submitter{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		out = append(out, row)
	}
	return out, nil
}

// UpdateStatus implements store.ContactStore.
func (s *ContactStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ContactStatus) error {
	defer s.lock()()

	m, ok := s.db.contacts[id]
	if !ok {
		return store.ErrContactNotFound
	}
	updated := copyContact(m)
	updated.Status = status
	updated.UpdatedAt = time.Now().UTC()
	s.db.contacts[id] = updated
	return nil
}

// DeleteByOwner implements store.ContactStore.
func (s *ContactStore) DeleteByOwner(_ context.Context, ownerID uuid.UUID) (int, error) {
	defer s.lock()()

	n := 0
	for id, m := range s.db.contacts {
		if m.UserID == ownerID {
			delete(s.db.contacts, id)
			n++
		}
	}
	return n, nil
}

// CountByStatus implements store.ContactStore.
func (s *ContactStore) CountByStatus(_ context.Context, status domain.ContactStatus) (int, error) {
	defer s.rlock()()

	n := 0
	for _, m := range s.db.contacts {
		if m.Status == status {
			n++
		}
	}
	return n, nil
}
