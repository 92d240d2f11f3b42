package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lu-estilo/internal/domain"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrBarcodeAlreadyExists = errors.New("product with this barcode already exists")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// FindByIDForUpdate reads the product and locks its row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]*domain.Product, int, error)
	// AdjustStock adds delta to the stock of a product. A negative delta that
	// would drive the stock below zero fails with ErrInsufficientStock.
	AdjustStock(ctx context.Context, id int64, delta int) error
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, description, price, barcode, section, stock, expiry_date, image_urls, created_at, updated_at`

// Create inserts a new product using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	imageURLs, err := encodeImageURLs(product.ImageURLs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (description, price, barcode, section, stock, expiry_date, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		product.Description,
		product.Price,
		product.Barcode,
		product.Section,
		product.Stock,
		product.ExpiryDate,
		imageURLs,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrBarcodeAlreadyExists, ErrDuplicate)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update overwrites every mutable column of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	imageURLs, err := encodeImageURLs(product.ImageURLs)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET description = $2, price = $3, barcode = $4, section = $5,
		    stock = $6, expiry_date = $7, image_urls = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Description,
		product.Price,
		product.Barcode,
		product.Section,
		product.Stock,
		product.ExpiryDate,
		imageURLs,
	).Scan(&product.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrBarcodeAlreadyExists, ErrDuplicate)
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *productRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

// FindByBarcode retrieves a product by its barcode
func (r *productRepository) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = $1`
	return r.findOne(ctx, query, barcode)
}

// List retrieves products matching the filter, ordered by id
func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]*domain.Product, int, error) {
	where := &whereBuilder{}
	if filter.Section != "" {
		where.add("section = $%d", filter.Section)
	}
	if filter.MinPrice != nil {
		where.add("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where.add("price <= $%d", *filter.MaxPrice)
	}
	if filter.InStock {
		where.add("stock > $%d", 0)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", where.clause())
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY id ASC
		LIMIT $%d OFFSET $%d
	`, productColumns, where.clause(), where.next(), where.next()+1)

	args := append(where.args, page.Limit(), page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0
	`

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the product is gone or the stock is too low
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check product existence: %w", err)
	}
	if !exists {
		return ErrProductNotFound
	}

	return ErrInsufficientStock
}

func (r *productRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var imageURLs sql.NullString
	err := row.Scan(
		&product.ID,
		&product.Description,
		&product.Price,
		&product.Barcode,
		&product.Section,
		&product.Stock,
		&product.ExpiryDate,
		&imageURLs,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.ImageURLs, err = decodeImageURLs(imageURLs)
	if err != nil {
		return nil, err
	}

	return product, nil
}

// encodeImageURLs stores the URL list as a JSON array, or NULL when empty
func encodeImageURLs(urls []string) (sql.NullString, error) {
	if len(urls) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode image urls: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeImageURLs(stored sql.NullString) ([]string, error) {
	urls := []string{}
	if !stored.Valid || stored.String == "" {
		return urls, nil
	}
	if err := json.Unmarshal([]byte(stored.String), &urls); err != nil {
		return nil, fmt.Errorf("failed to decode image urls: %w", err)
	}
	return urls, nil
}
