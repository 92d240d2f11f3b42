//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"lu-estilo/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(clientID int64, status domain.OrderStatus, products ...*domain.Product) *domain.Order {
	order := &domain.Order{ClientID: clientID, Status: status}
	for _, p := range products {
		order.Items = append(order.Items, domain.OrderItem{ProductID: p.ID, Quantity: 2, UnitPrice: p.Price})
	}
	order.TotalAmount = order.CalculateTotal()
	return order
}

func TestOrderRepositoryCreateAndFind(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := NewOrderRepository(testDB)

	client := seedClient(t, "maria@email.com", "12345678901")
	dress := seedProduct(t, "feminino", "49.90", 10)
	shirt := seedProduct(t, "masculino", "30.00", 10)

	order := newOrder(client.ID, domain.OrderStatusPending, dress, shirt)
	require.NoError(t, repo.Create(ctx, order))
	require.NotZero(t, order.ID)
	for _, item := range order.Items {
		assert.NotZero(t, item.ID)
		assert.Equal(t, order.ID, item.OrderID)
	}

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("159.80").Equal(stored.TotalAmount))
	assert.Equal(t, domain.OrderStatusPending, stored.Status)
	require.Len(t, stored.Items, 2)
	assert.True(t, dress.Price.Equal(stored.Items[0].UnitPrice))

	stored.Status = domain.OrderStatusShipped
	require.NoError(t, repo.Update(ctx, stored))

	updated, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, updated.Status)
}

func TestOrderRepositoryDeleteCascadesItems(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := NewOrderRepository(testDB)

	client := seedClient(t, "maria@email.com", "12345678901")
	order := newOrder(client.ID, domain.OrderStatusPending, seedProduct(t, "feminino", "10.00", 5))
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.Delete(ctx, order.ID))

	items, err := repo.FindItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, order.ID), ErrOrderNotFound)
}

func TestOrderRepositoryListFilters(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := NewOrderRepository(testDB)

	maria := seedClient(t, "maria@email.com", "12345678901")
	joao := seedClient(t, "joao@email.com", "10987654321")
	dress := seedProduct(t, "feminino", "49.90", 10)
	skirt := seedProduct(t, "feminino", "39.90", 10)
	shirt := seedProduct(t, "masculino", "30.00", 10)

	require.NoError(t, repo.Create(ctx, newOrder(maria.ID, domain.OrderStatusPending, dress, skirt)))
	require.NoError(t, repo.Create(ctx, newOrder(maria.ID, domain.OrderStatusShipped, shirt)))
	require.NoError(t, repo.Create(ctx, newOrder(joao.ID, domain.OrderStatusPending, dress, shirt)))

	shipped := domain.OrderStatusShipped
	page := domain.Page{Number: 1, Size: 10}

	tests := []struct {
		name   string
		filter domain.OrderFilter
		total  int
	}{
		{"all", domain.OrderFilter{}, 3},
		{"client", domain.OrderFilter{ClientID: &joao.ID}, 1},
		{"status", domain.OrderFilter{Status: &shipped}, 1},
		// two matching items in one order must not duplicate the row
		{"section", domain.OrderFilter{Section: "feminino"}, 2},
		{"section and client", domain.OrderFilter{Section: "masculino", ClientID: &maria.ID}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, total, err := repo.List(ctx, tt.filter, page)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			require.Len(t, orders, tt.total)
			for _, order := range orders {
				assert.NotEmpty(t, order.Items)
			}
		})
	}
}

func TestStoreWithTxRollsBack(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	store := NewStore(testDB)

	product := seedProduct(t, "feminino", "49.90", 10)
	failure := errors.New("abort")

	err := store.WithTx(ctx, func(tx Store) error {
		locked, err := tx.Products().FindByIDForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		if err := tx.Products().AdjustStock(ctx, locked.ID, -4); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)

	stored, err := store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Stock)

	err = store.WithTx(ctx, func(tx Store) error {
		return tx.Products().AdjustStock(ctx, product.ID, -4)
	})
	require.NoError(t, err)

	stored, err = store.Products().FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Stock)
}
