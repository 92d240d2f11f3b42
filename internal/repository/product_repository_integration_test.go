//go:build integration

package repository

import (
	"context"
	"testing"

	"lu-estilo/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Feature: sales-api, Property 14: Product creation preserves attributes
func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("a stored product reads back unchanged", prop.ForAll(
		func(description string, cents int64, stock int, urls []string) bool {
			expiry := domain.NewDate(2030, 12, 31)
			product := &domain.Product{
				Description: description,
				Price:       decimal.New(cents, -2),
				Section:     "feminino",
				Stock:       stock,
				ExpiryDate:  &expiry,
				ImageURLs:   urls,
			}
			if err := repo.Create(ctx, product); err != nil {
				t.Logf("Failed to create product: %v", err)
				return false
			}

			stored, err := repo.FindByID(ctx, product.ID)
			if err != nil {
				return false
			}

			if len(stored.ImageURLs) != len(urls) {
				return false
			}
			for i := range urls {
				if stored.ImageURLs[i] != urls[i] {
					return false
				}
			}

			return stored.Description == description &&
				stored.Price.Equal(product.Price) &&
				stored.Stock == stock &&
				stored.ExpiryDate != nil && stored.ExpiryDate.String() == "2030-12-31"
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.Int64Range(1, 10000000),
		gen.IntRange(0, 1000),
		gen.SliceOfN(3, gen.RegexMatch(`https://cdn\.luestilo\.com/[a-z]{4,10}\.png`)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductRepositoryWithoutImages(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := NewProductRepository(testDB)

	product := seedProduct(t, "feminino", "10.00", 1)

	stored, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ImageURLs)
	assert.NotNil(t, stored.ImageURLs)
	assert.Nil(t, stored.ExpiryDate)
}

func TestProductRepositoryConstraints(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := NewProductRepository(testDB)

	barcode := "7891234567890"
	first := &domain.Product{Description: "Saia", Price: decimal.NewFromInt(50), Barcode: &barcode, Section: "feminino"}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.Product{Description: "Saia", Price: decimal.NewFromInt(50), Barcode: &barcode, Section: "feminino"}
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.ErrorIs(t, err, ErrBarcodeAlreadyExists)

	// the CHECK constraint rejects negative stock even on direct writes
	first.Stock = -1
	assert.Error(t, repo.Update(ctx, first))

	found, err := repo.FindByBarcode(ctx, barcode)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, 0, found.Stock)
}

func TestAdjustStock(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := NewProductRepository(testDB)

	product := seedProduct(t, "feminino", "49.90", 10)

	require.NoError(t, repo.AdjustStock(ctx, product.ID, -3))
	assert.ErrorIs(t, repo.AdjustStock(ctx, product.ID, -8), ErrInsufficientStock)
	require.NoError(t, repo.AdjustStock(ctx, product.ID, -7))
	require.NoError(t, repo.AdjustStock(ctx, product.ID, 4))
	assert.ErrorIs(t, repo.AdjustStock(ctx, 9999, 1), ErrProductNotFound)

	stored, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Stock)
}

func TestProductRepositoryListFilters(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := NewProductRepository(testDB)

	seedProduct(t, "feminino", "50.00", 3)
	seedProduct(t, "feminino", "150.00", 0)
	seedProduct(t, "masculino", "80.00", 2)

	minPrice := decimal.RequireFromString("60")
	maxPrice := decimal.RequireFromString("100")
	page := domain.Page{Number: 1, Size: 10}

	tests := []struct {
		name   string
		filter domain.ProductFilter
		total  int
	}{
		{"all", domain.ProductFilter{}, 3},
		{"section", domain.ProductFilter{Section: "feminino"}, 2},
		{"in stock", domain.ProductFilter{InStock: true}, 2},
		{"price range", domain.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := repo.List(ctx, tt.filter, page)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Len(t, products, tt.total)
		})
	}
}
