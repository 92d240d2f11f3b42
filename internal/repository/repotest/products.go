package repotest

import (
	"context"
	"time"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/repository"
)

type productRepository struct {
	db *database
}

func (r *productRepository) barcodeTaken(barcode *string, exceptID int64) bool {
	if barcode == nil {
		return false
	}
	for id, p := range r.db.data.products {
		if id != exceptID && p.Barcode != nil && *p.Barcode == *barcode {
			return true
		}
	}
	return false
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.barcodeTaken(product.Barcode, 0) {
		return duplicate(repository.ErrBarcodeAlreadyExists)
	}

	product.ID = r.db.data.nextID()
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt
	*product = copyProduct(*product)
	r.db.data.products[product.ID] = copyProduct(*product)
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.data.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	if r.barcodeTaken(product.Barcode, product.ID) {
		return duplicate(repository.ErrBarcodeAlreadyExists)
	}

	product.CreatedAt = stored.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.db.data.products[product.ID] = copyProduct(*product)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.data.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.db.data.products, id)
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.data.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	p = copyProduct(p)
	return &p, nil
}

// FindByIDForUpdate needs no row lock here: transactions are already serialized
func (r *productRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *productRepository) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.data.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			p = copyProduct(p)
			return &p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]*domain.Product, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var matched []int64
	for _, id := range sortedKeys(r.db.data.products) {
		p := r.db.data.products[id]
		if filter.Section != "" && p.Section != filter.Section {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if filter.InStock && p.Stock <= 0 {
			continue
		}
		matched = append(matched, id)
	}

	window, total := paginate(matched, page)
	products := make([]*domain.Product, 0, len(window))
	for _, id := range window {
		p := copyProduct(r.db.data.products[id])
		products = append(products, &p)
	}
	return products, total, nil
}

func (r *productRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.data.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return repository.ErrInsufficientStock
	}
	p.Stock += delta
	p.UpdatedAt = time.Now().UTC()
	r.db.data.products[id] = p
	return nil
}
