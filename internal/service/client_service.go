package service

import (
	"context"
	"errors"
	"fmt"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/repository"
)

// ClientService defines the interface for client business logic
type ClientService interface {
	List(ctx context.Context, filter domain.ClientFilter, page domain.Page) (domain.PageResult[*domain.Client], error)
	Get(ctx context.Context, id int64) (*domain.Client, error)
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, id int64, patch domain.ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, id int64) error
}

type clientService struct {
	store repository.Store
}

// NewClientService creates a new instance of ClientService
func NewClientService(store repository.Store) ClientService {
	return &clientService{store: store}
}

func (s *clientService) List(ctx context.Context, filter domain.ClientFilter, page domain.Page) (domain.PageResult[*domain.Client], error) {
	clients, total, err := s.store.Clients().List(ctx, filter, page)
	if err != nil {
		return domain.PageResult[*domain.Client]{}, fmt.Errorf("failed to list clients: %w", err)
	}
	return domain.NewPageResult(clients, total, page), nil
}

func (s *clientService) Get(ctx context.Context, id int64) (*domain.Client, error) {
	client, err := s.store.Clients().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, clientNotFound(id)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// Create stores a new client. Email and national ID must both be unused;
// when both collide the email conflict is reported.
func (s *clientService) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	existing, err := s.store.Clients().FindByEmailOrNationalID(ctx, client.Email, client.NationalID)
	if err != nil && !errors.Is(err, repository.ErrClientNotFound) {
		return nil, fmt.Errorf("failed to check existing client: %w", err)
	}
	if existing != nil {
		if existing.Email == client.Email {
			return nil, domain.Conflictf("email already registered")
		}
		return nil, domain.Conflictf("national ID already registered")
	}

	if err := s.store.Clients().Create(ctx, client); err != nil {
		// Lost a race against a concurrent insert
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Conflictf("email or national ID already registered")
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func (s *clientService) Update(ctx context.Context, id int64, patch domain.ClientPatch) (*domain.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != client.Email {
		other, err := s.store.Clients().FindByEmail(ctx, *patch.Email)
		if err != nil && !errors.Is(err, repository.ErrClientNotFound) {
			return nil, fmt.Errorf("failed to check existing client: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, domain.Conflictf("email already registered to another client")
		}
	}

	patch.Apply(client)

	if err := s.store.Clients().Update(ctx, client); err != nil {
		switch {
		case errors.Is(err, repository.ErrClientNotFound):
			return nil, clientNotFound(id)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, domain.Conflictf("email already registered to another client")
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return client, nil
}

func (s *clientService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Clients().Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return clientNotFound(id)
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func clientNotFound(id int64) error {
	return domain.NotFoundf("client with id %d not found", id)
}
