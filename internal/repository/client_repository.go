package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lu-estilo/internal/domain"
)

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrClientAlreadyExists = errors.New("client with this email or national ID already exists")
)

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	FindByEmail(ctx context.Context, email string) (*domain.Client, error)
	// FindByEmailOrNationalID returns a client holding either value, preferring the email match
	FindByEmailOrNationalID(ctx context.Context, email, nationalID string) (*domain.Client, error)
	List(ctx context.Context, filter domain.ClientFilter, page domain.Page) ([]*domain.Client, int, error)
}

type clientRepository struct {
	db DBTX
}

// NewClientRepository creates a new instance of ClientRepository
func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, email, national_id, phone, address, created_at, updated_at`

// Create inserts a new client and fills in its generated id and timestamps
func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (name, email, national_id, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		client.Name,
		client.Email,
		client.NationalID,
		client.Phone,
		client.Address,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrClientAlreadyExists, ErrDuplicate)
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// Update overwrites the mutable columns of an existing client
func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $2, email = $3, phone = $4, address = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		client.ID,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
	).Scan(&client.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrClientNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrClientAlreadyExists, ErrDuplicate)
		}
		return fmt.Errorf("failed to update client: %w", err)
	}

	return nil
}

// Delete removes a client
func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrClientNotFound
	}

	return nil
}

// FindByID retrieves a client by ID
func (r *clientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FindByEmail retrieves a client by exact email
func (r *clientRepository) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`
	return r.findOne(ctx, query, email)
}

func (r *clientRepository) FindByEmailOrNationalID(ctx context.Context, email, nationalID string) (*domain.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE email = $1 OR national_id = $2
		ORDER BY (email = $1) DESC, id ASC
		LIMIT 1
	`
	return r.findOne(ctx, query, email, nationalID)
}

// List retrieves clients matching the filter with pagination
func (r *clientRepository) List(ctx context.Context, filter domain.ClientFilter, page domain.Page) ([]*domain.Client, int, error) {
	where := &whereBuilder{}
	if filter.Name != "" {
		where.add("name ILIKE $%d", containsPattern(filter.Name))
	}
	if filter.Email != "" {
		where.add("email ILIKE $%d", containsPattern(filter.Email))
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM clients %s", where.clause())
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM clients
		%s
		ORDER BY id ASC
		LIMIT $%d OFFSET $%d
	`, clientColumns, where.clause(), where.next(), where.next()+1)

	args := append(where.args, page.Limit(), page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, total, nil
}

func (r *clientRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Client, error) {
	client, err := scanClient(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return client, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	client := &domain.Client{}
	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.NationalID,
		&client.Phone,
		&client.Address,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// containsPattern builds an ILIKE pattern matching s anywhere, treating s literally
func containsPattern(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(s) + "%"
}
