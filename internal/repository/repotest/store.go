// Package repotest provides an in-memory repository.Store for service and handler tests.
// Transactions are serialized and roll back by restoring a snapshot of the data.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/repository"
)

type tables struct {
	clients  map[int64]domain.Client
	products map[int64]domain.Product
	orders   map[int64]domain.Order
	users    map[int64]domain.User
	lastID   int64
}

func newTables() *tables {
	return &tables{
		clients:  make(map[int64]domain.Client),
		products: make(map[int64]domain.Product),
		orders:   make(map[int64]domain.Order),
		users:    make(map[int64]domain.User),
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	c.lastID = t.lastID
	for id, v := range t.clients {
		c.clients[id] = v
	}
	for id, v := range t.products {
		c.products[id] = copyProduct(v)
	}
	for id, v := range t.orders {
		c.orders[id] = copyOrder(v)
	}
	for id, v := range t.users {
		c.users[id] = v
	}
	return c
}

func (t *tables) nextID() int64 {
	t.lastID++
	return t.lastID
}

type database struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data *tables

	failOrderCreate error
}

// Store is an in-memory repository.Store
type Store struct {
	db   *database
	inTx bool
}

var _ repository.Store = (*Store)(nil)

// NewStore returns an empty Store
func NewStore() *Store {
	return &Store{db: &database{data: newTables()}}
}

func (s *Store) Clients() repository.ClientRepository {
	return &clientRepository{db: s.db}
}

func (s *Store) Products() repository.ProductRepository {
	return &productRepository{db: s.db}
}

func (s *Store) Orders() repository.OrderRepository {
	return &orderRepository{db: s.db}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{db: s.db}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()

	s.db.mu.Lock()
	snapshot := s.db.data.clone()
	s.db.mu.Unlock()

	if err := fn(&Store{db: s.db, inTx: true}); err != nil {
		s.db.mu.Lock()
		s.db.data = snapshot
		s.db.mu.Unlock()
		return err
	}
	return nil
}

// FailNextOrderCreate makes the next order insert fail with err
func (s *Store) FailNextOrderCreate(err error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.failOrderCreate = err
}

// SeedClient stores client as is, assigning an id when it has none
func (s *Store) SeedClient(client *domain.Client) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if client.ID == 0 {
		client.ID = s.db.data.nextID()
	} else if client.ID > s.db.data.lastID {
		s.db.data.lastID = client.ID
	}
	stamp(&client.CreatedAt, &client.UpdatedAt)
	s.db.data.clients[client.ID] = *client
}

// SeedProduct stores product as is, assigning an id when it has none
func (s *Store) SeedProduct(product *domain.Product) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if product.ID == 0 {
		product.ID = s.db.data.nextID()
	} else if product.ID > s.db.data.lastID {
		s.db.data.lastID = product.ID
	}
	stamp(&product.CreatedAt, &product.UpdatedAt)
	s.db.data.products[product.ID] = copyProduct(*product)
}

// Stock returns the stored stock of a product, or -1 when it does not exist
func (s *Store) Stock(productID int64) int {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.data.products[productID]
	if !ok {
		return -1
	}
	return p.Stock
}

// OrderCount returns the number of stored orders
func (s *Store) OrderCount() int {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return len(s.db.data.orders)
}

func stamp(createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = now
	}
}

func copyProduct(p domain.Product) domain.Product {
	if p.ImageURLs != nil {
		p.ImageURLs = append([]string{}, p.ImageURLs...)
	} else {
		p.ImageURLs = []string{}
	}
	return p
}

func copyOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem{}, o.Items...)
	o.Client = nil
	return o
}

// paginate returns the window of ids selected by page, with the total count
func paginate(ids []int64, page domain.Page) ([]int64, int) {
	total := len(ids)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Limit()
	if end > total {
		end = total
	}
	return ids[start:end], total
}

func duplicate(sentinel error) error {
	return fmt.Errorf("%w: %w", sentinel, repository.ErrDuplicate)
}
