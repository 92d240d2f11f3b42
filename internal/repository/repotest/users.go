package repotest

import (
	"context"
	"time"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/repository"
)

type userRepository struct {
	db *database
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.data.users {
		if u.Username == user.Username || u.Email == user.Email {
			return duplicate(repository.ErrUserAlreadyExists)
		}
	}

	user.ID = r.db.data.nextID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.db.data.users[user.ID] = *user
	return nil
}

func (r *userRepository) find(match func(domain.User) bool) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, id := range sortedKeys(r.db.data.users) {
		u := r.db.data.users[id]
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *userRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	if u, err := r.FindByUsername(ctx, username); err == nil {
		return u, nil
	}
	return r.FindByEmail(ctx, email)
}

// SetActive toggles the is_active flag of a stored user
func (s *Store) SetActive(userID int64, active bool) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if u, ok := s.db.data.users[userID]; ok {
		u.IsActive = active
		s.db.data.users[userID] = u
	}
}
