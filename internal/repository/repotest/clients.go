package repotest

import (
	"context"
	"slices"
	"strings"
	"time"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/repository"
)

type clientRepository struct {
	db *database
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, c := range r.db.data.clients {
		if c.Email == client.Email || c.NationalID == client.NationalID {
			return duplicate(repository.ErrClientAlreadyExists)
		}
	}

	client.ID = r.db.data.nextID()
	client.CreatedAt = time.Now().UTC()
	client.UpdatedAt = client.CreatedAt
	r.db.data.clients[client.ID] = *client
	return nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.data.clients[client.ID]
	if !ok {
		return repository.ErrClientNotFound
	}
	for id, c := range r.db.data.clients {
		if id != client.ID && c.Email == client.Email {
			return duplicate(repository.ErrClientAlreadyExists)
		}
	}

	client.NationalID = stored.NationalID
	client.CreatedAt = stored.CreatedAt
	client.UpdatedAt = time.Now().UTC()
	r.db.data.clients[client.ID] = *client
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.data.clients[id]; !ok {
		return repository.ErrClientNotFound
	}
	delete(r.db.data.clients, id)
	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.data.clients[id]
	if !ok {
		return nil, repository.ErrClientNotFound
	}
	return &c, nil
}

func (r *clientRepository) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, c := range r.db.data.clients {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, repository.ErrClientNotFound
}

func (r *clientRepository) FindByEmailOrNationalID(ctx context.Context, email, nationalID string) (*domain.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var byNationalID *domain.Client
	for _, id := range sortedKeys(r.db.data.clients) {
		c := r.db.data.clients[id]
		if c.Email == email {
			return &c, nil
		}
		if c.NationalID == nationalID && byNationalID == nil {
			byNationalID = &c
		}
	}
	if byNationalID != nil {
		return byNationalID, nil
	}
	return nil, repository.ErrClientNotFound
}

func (r *clientRepository) List(ctx context.Context, filter domain.ClientFilter, page domain.Page) ([]*domain.Client, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var matched []int64
	for _, id := range sortedKeys(r.db.data.clients) {
		c := r.db.data.clients[id]
		if filter.Name != "" && !containsFold(c.Name, filter.Name) {
			continue
		}
		if filter.Email != "" && !containsFold(c.Email, filter.Email) {
			continue
		}
		matched = append(matched, id)
	}

	window, total := paginate(matched, page)
	clients := make([]*domain.Client, 0, len(window))
	for _, id := range window {
		c := r.db.data.clients[id]
		clients = append(clients, &c)
	}
	return clients, total, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for id := range m {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}
