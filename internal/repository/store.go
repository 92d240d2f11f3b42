package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories translate
const (
	pgUniqueViolation = "23505"
)

// ErrDuplicate is returned when a unique constraint rejects a write
var ErrDuplicate = errors.New("duplicate key value")

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run inside or outside a transaction
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store groups the repositories and runs units of work atomically
type Store interface {
	Clients() ClientRepository
	Products() ProductRepository
	Orders() OrderRepository
	Users() UserRepository

	// WithTx runs fn with a Store bound to one transaction. The transaction
	// commits when fn returns nil and rolls back otherwise. Calling WithTx on a
	// Store that is already transactional reuses the running transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

type sqlStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewStore creates a Store backed by db
func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) conn() DBTX {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *sqlStore) Clients() ClientRepository {
	return NewClientRepository(s.conn())
}

func (s *sqlStore) Products() ProductRepository {
	return NewProductRepository(s.conn())
}

func (s *sqlStore) Orders() OrderRepository {
	return NewOrderRepository(s.conn())
}

func (s *sqlStore) Users() UserRepository {
	return NewUserRepository(s.conn())
}

func (s *sqlStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&sqlStore{db: s.db, tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// constraintName returns the violated constraint of a PostgreSQL error, if any
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// whereBuilder accumulates AND-ed conditions with positional parameters
type whereBuilder struct {
	conditions []string
	args       []any
}

func (w *whereBuilder) add(condition string, arg any) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, fmt.Sprintf(condition, len(w.args)))
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	clause := "WHERE " + w.conditions[0]
	for _, c := range w.conditions[1:] {
		clause += " AND " + c
	}
	return clause
}

// next returns the placeholder index following the accumulated arguments
func (w *whereBuilder) next() int {
	return len(w.args) + 1
}
