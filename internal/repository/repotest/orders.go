package repotest

import (
	"context"
	"time"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/repository"
)

type orderRepository struct {
	db *database
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.failOrderCreate; err != nil {
		r.db.failOrderCreate = nil
		return err
	}

	order.ID = r.db.data.nextID()
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = r.db.data.nextID()
		order.Items[i].OrderID = order.ID
	}
	r.db.data.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.data.orders[order.ID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	stored.Status = order.Status
	stored.UpdatedAt = time.Now().UTC()
	order.UpdatedAt = stored.UpdatedAt
	r.db.data.orders[order.ID] = stored
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.data.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(r.db.data.orders, id)
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	o, ok := r.db.data.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o = copyOrder(o)
	return &o, nil
}

func (r *orderRepository) FindItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	o, ok := r.db.data.orders[orderID]
	if !ok {
		return []domain.OrderItem{}, nil
	}
	return append([]domain.OrderItem{}, o.Items...), nil
}

func (r *orderRepository) List(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]*domain.Order, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var matched []int64
	for _, id := range sortedKeys(r.db.data.orders) {
		o := r.db.data.orders[id]
		if filter.ClientID != nil && o.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.CreatedAfter != nil && o.CreatedAt.Before(*filter.CreatedAfter) {
			continue
		}
		if filter.CreatedBefore != nil && o.CreatedAt.After(*filter.CreatedBefore) {
			continue
		}
		if filter.Section != "" && !r.hasSection(o, filter.Section) {
			continue
		}
		matched = append(matched, id)
	}

	window, total := paginate(matched, page)
	orders := make([]*domain.Order, 0, len(window))
	for _, id := range window {
		o := copyOrder(r.db.data.orders[id])
		orders = append(orders, &o)
	}
	return orders, total, nil
}

func (r *orderRepository) hasSection(o domain.Order, section string) bool {
	for _, item := range o.Items {
		if p, ok := r.db.data.products[item.ProductID]; ok && p.Section == section {
			return true
		}
	}
	return false
}
