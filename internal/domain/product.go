package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Barcode     *string         `json:"barcode" db:"barcode"`
	Section     string          `json:"section" db:"section"`
	Stock       int             `json:"stock" db:"stock"`
	ExpiryDate  *Date           `json:"expiry_date" db:"expiry_date"`
	ImageURLs   []string        `json:"image_urls" db:"image_urls"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// HasStock reports whether quantity units can be taken from the product
func (p *Product) HasStock(quantity int) bool {
	return quantity <= p.Stock
}

// ProductPatch carries the fields of a partial product update. Nil fields are left untouched.
type ProductPatch struct {
	Description *string
	Price       *decimal.Decimal
	Barcode     *string
	Section     *string
	Stock       *int
	ExpiryDate  *Date
	ImageURLs   *[]string
}

// Apply copies every supplied field onto the product
func (p ProductPatch) Apply(product *Product) {
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Barcode != nil {
		product.Barcode = p.Barcode
	}
	if p.Section != nil {
		product.Section = *p.Section
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.ExpiryDate != nil {
		product.ExpiryDate = p.ExpiryDate
	}
	if p.ImageURLs != nil {
		product.ImageURLs = append([]string{}, (*p.ImageURLs)...)
	}
}

// ProductFilter narrows product listings
type ProductFilter struct {
	Section  string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	InStock  bool
}
