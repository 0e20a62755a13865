package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/expenseflow-api/internal/domain"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

// UserStore implements store.UserStore.
type UserStore struct {
	view
}

var _ store.UserStore = (*UserStore)(nil)

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

// Create implements store.UserStore.
func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	defer s.lock()()

	for _, existing := range s.db.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	if _, ok := s.db.users[user.ID]; ok {
		return store.ErrDuplicate
	}
	s.db.users[user.ID] = copyUser(user)
	return nil
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	defer s.rlock()()

	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetByEmail implements store.UserStore.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	defer s.rlock()()

	for _, u := range s.db.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// UpdateRole implements store.UserStore.
func (s *UserStore) UpdateRole(_ context.Context, id uuid.UUID, role domain.Role) error {
	defer s.lock()()

	u, ok := s.db.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	updated := copyUser(u)
	updated.Role = role
	updated.UpdatedAt = time.Now().UTC()
	s.db.users[id] = updated
	return nil
}

// List implements store.UserStore.
func (s *UserStore) List(_ context.Context) ([]*domain.User, error) {
	defer s.rlock()()

	users := make([]*domain.User, 0, len(s.db.users))
	for _, u := range s.db.users {
		users = append(users, copyUser(u))
	}
	sort.SliceStable(users, func(i, j int) bool {
		return newerFirst(users[i].CreatedAt, users[i].ID, users[j].CreatedAt, users[j].ID)
	})
	return users, nil
}

// Count implements store.UserStore.
func (s *UserStore) Count(_ context.Context) (int, error) {
	defer s.rlock()()
	return len(s.db.users), nil
}

// Delete implements store.UserStore.
func (s *UserStore) Delete(_ context.Context, id uuid.UUID) error {
	defer s.lock()()

	if _, ok := s.db.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.db.users, id)
	return nil
}
