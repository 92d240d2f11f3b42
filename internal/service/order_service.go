package service

import (
	"context"
	"errors"
	"fmt"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderService defines the interface for the order workflow
type OrderService interface {
	// Create places an order atomically: it checks the client and every
	// product, takes the requested quantities out of stock and records the
	// current product prices on the items.
	Create(ctx context.Context, input domain.OrderInput) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter, page domain.Page) (domain.PageResult[*domain.Order], error)
	// Update changes order fields only. Stock is never touched, not even on cancellation.
	Update(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.Order, error)
	// Delete returns every item quantity to stock and removes the order
	Delete(ctx context.Context, id int64) error
}

type orderService struct {
	store repository.Store
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(store repository.Store) OrderService {
	return &orderService{store: store}
}

func (s *orderService) Create(ctx context.Context, input domain.OrderInput) (*domain.Order, error) {
	status := input.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !status.Valid() {
		return nil, domain.InvalidInputf("invalid order status %q", status)
	}

	var order *domain.Order
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		client, err := tx.Clients().FindByID(ctx, input.ClientID)
		if err != nil {
			if errors.Is(err, repository.ErrClientNotFound) {
				return clientNotFound(input.ClientID)
			}
			return fmt.Errorf("failed to find client: %w", err)
		}

		if len(input.Items) == 0 {
			return domain.InvalidInputf("order must contain at least one item")
		}

		items := make([]domain.OrderItem, 0, len(input.Items))
		total := decimal.Zero
		for _, in := range input.Items {
			item, err := s.reserve(ctx, tx, in)
			if err != nil {
				return err
			}
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}

		order = &domain.Order{
			ClientID:    client.ID,
			Status:      status,
			TotalAmount: total,
			Items:       items,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		order.Client = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// reserve locks the product, takes quantity out of its stock and returns the priced item
func (s *orderService) reserve(ctx context.Context, tx repository.Store, in domain.OrderItemInput) (domain.OrderItem, error) {
	if in.Quantity <= 0 {
		return domain.OrderItem{}, domain.InvalidInputf("quantity for product %d must be greater than zero", in.ProductID)
	}

	product, err := tx.Products().FindByIDForUpdate(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domain.OrderItem{}, productNotFound(in.ProductID)
		}
		return domain.OrderItem{}, fmt.Errorf("failed to find product: %w", err)
	}

	if !product.HasStock(in.Quantity) {
		return domain.OrderItem{}, insufficientStock(product)
	}

	if err := tx.Products().AdjustStock(ctx, product.ID, -in.Quantity); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			return domain.OrderItem{}, insufficientStock(product)
		case errors.Is(err, repository.ErrProductNotFound):
			return domain.OrderItem{}, productNotFound(in.ProductID)
		}
		return domain.OrderItem{}, fmt.Errorf("failed to update stock: %w", err)
	}

	return domain.OrderItem{
		ProductID: product.ID,
		Quantity:  in.Quantity,
		UnitPrice: product.Price,
	}, nil
}

func (s *orderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, orderNotFound(id)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	client, err := s.store.Clients().FindByID(ctx, order.ClientID)
	switch {
	case err == nil:
		order.Client = client
	case !errors.Is(err, repository.ErrClientNotFound):
		return nil, fmt.Errorf("failed to get order client: %w", err)
	}

	return order, nil
}

func (s *orderService) List(ctx context.Context, filter domain.OrderFilter, page domain.Page) (domain.PageResult[*domain.Order], error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return domain.PageResult[*domain.Order]{}, domain.InvalidInputf("invalid order status %q", *filter.Status)
	}

	orders, total, err := s.store.Orders().List(ctx, filter, page)
	if err != nil {
		return domain.PageResult[*domain.Order]{}, fmt.Errorf("failed to list orders: %w", err)
	}
	return domain.NewPageResult(orders, total, page), nil
}

func (s *orderService) Update(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.Order, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.InvalidInputf("invalid order status %q", *patch.Status)
	}

	order, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, orderNotFound(id)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	patch.Apply(order)

	if err := s.store.Orders().Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, orderNotFound(id)
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id int64) error {
	return s.store.WithTx(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return orderNotFound(id)
			}
			return fmt.Errorf("failed to get order: %w", err)
		}

		for _, item := range order.Items {
			err := tx.Products().AdjustStock(ctx, item.ProductID, item.Quantity)
			// Products deleted since the sale have nothing to restock
			if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
				return fmt.Errorf("failed to restock product %d: %w", item.ProductID, err)
			}
		}

		if err := tx.Orders().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return orderNotFound(id)
			}
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

func orderNotFound(id int64) error {
	return domain.NotFoundf("order with id %d not found", id)
}

func insufficientStock(product *domain.Product) error {
	return domain.Conflictf("insufficient stock for product %s (id %d, available %d)",
		product.Description, product.ID, product.Stock)
}
