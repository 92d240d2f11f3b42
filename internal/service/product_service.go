package service

import (
	"context"
	"errors"
	"fmt"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/repository"
)

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context, filter domain.ProductFilter, page domain.Page) (domain.PageResult[*domain.Product], error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	store repository.Store
}

// NewProductService creates a new instance of ProductService
func NewProductService(store repository.Store) ProductService {
	return &productService{store: store}
}

func (s *productService) List(ctx context.Context, filter domain.ProductFilter, page domain.Page) (domain.PageResult[*domain.Product], error) {
	products, total, err := s.store.Products().List(ctx, filter, page)
	if err != nil {
		return domain.PageResult[*domain.Product]{}, fmt.Errorf("failed to list products: %w", err)
	}
	return domain.NewPageResult(products, total, page), nil
}

func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, productNotFound(id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.Barcode != nil {
		taken, err := barcodeOwner(ctx, s.store.Products(), *product.Barcode)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, domain.Conflictf("barcode already registered")
		}
	}

	if product.ImageURLs == nil {
		product.ImageURLs = []string{}
	}

	if err := s.store.Products().Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Conflictf("barcode already registered")
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update applies patch under a row lock, so stock taken by concurrent orders is never written back
func (s *productService) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	var product *domain.Product
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		product, err = tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return productNotFound(id)
			}
			return fmt.Errorf("failed to get product: %w", err)
		}

		if patch.Barcode != nil && (product.Barcode == nil || *patch.Barcode != *product.Barcode) {
			owner, err := barcodeOwner(ctx, tx.Products(), *patch.Barcode)
			if err != nil {
				return err
			}
			if owner != nil && owner.ID != id {
				return domain.Conflictf("barcode already registered to another product")
			}
		}

		patch.Apply(product)

		if err := tx.Products().Update(ctx, product); err != nil {
			switch {
			case errors.Is(err, repository.ErrProductNotFound):
				return productNotFound(id)
			case errors.Is(err, repository.ErrDuplicate):
				return domain.Conflictf("barcode already registered to another product")
			}
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Products().Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return productNotFound(id)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func barcodeOwner(ctx context.Context, products repository.ProductRepository, barcode string) (*domain.Product, error) {
	product, err := products.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check barcode: %w", err)
	}
	return product, nil
}

func productNotFound(id int64) error {
	return domain.NotFoundf("product with id %d not found", id)
}
