package domain

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page selects a window of a listing. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// NewPage validates the page number and size
func NewPage(number, size int) (Page, error) {
	if number < 1 {
		return Page{}, InvalidInputf("page must be greater than or equal to 1")
	}
	if size < 1 || size > MaxPageSize {
		return Page{}, InvalidInputf("size must be between 1 and %d", MaxPageSize)
	}
	if number-1 > math.MaxInt/size {
		return Page{}, InvalidInputf("page is too large")
	}
	return Page{Number: number, Size: size}, nil
}

// Offset is the number of rows to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit is the maximum number of rows to return
func (p Page) Limit() int {
	return p.Size
}

// PageResult is one page of a listing together with the filtered total
type PageResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// NewPageResult assembles a page response, never returning a nil item slice
func NewPageResult[T any](items []T, total int, page Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{Items: items, Total: total, Page: page.Number, Size: page.Size}
}
