package transport

import (
	"fmt"
	"net/http"
	"testing"

	"lu-estilo/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductRequest(section string, price string, stock int) map[string]interface{} {
	return map[string]interface{}{
		"description": "Vestido midi " + section,
		"price":       price,
		"section":     section,
		"stock":       stock,
		"expiry_date": "2030-12-31",
		"image_urls":  []string{"https://cdn.luestilo.com/vestido.png"},
	}
}

func (a *testAPI) createProduct(section, price string, stock int) domain.Product {
	a.t.Helper()
	w := a.do(http.MethodPost, "/products", newProductRequest(section, price, stock), a.adminToken)
	requireStatus(a.t, w, http.StatusCreated)
	return decodeBody[domain.Product](a.t, w)
}

func TestProductWritesRequireAdmin(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/products", newProductRequest("feminino", "89.90", 5), api.userToken)
	requireStatus(t, w, http.StatusForbidden)

	product := api.createProduct("feminino", "89.90", 5)
	path := fmt.Sprintf("/products/%d", product.ID)

	requireStatus(t, api.do(http.MethodPut, path, map[string]interface{}{"stock": 1}, api.userToken), http.StatusForbidden)
	requireStatus(t, api.do(http.MethodDelete, path, nil, api.userToken), http.StatusForbidden)
	requireStatus(t, api.do(http.MethodGet, path, nil, api.userToken), http.StatusOK)
}

func TestCreateProduct(t *testing.T) {
	api := newTestAPI(t)

	product := api.createProduct("feminino", "89.90", 5)

	assert.NotZero(t, product.ID)
	assert.True(t, decimal.RequireFromString("89.90").Equal(product.Price))
	assert.Equal(t, []string{"https://cdn.luestilo.com/vestido.png"}, product.ImageURLs)
	require.NotNil(t, product.ExpiryDate)
	assert.Equal(t, "2030-12-31", product.ExpiryDate.String())
}

func TestCreateProductValidation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		mutate func(body map[string]interface{})
	}{
		{"zero price", func(b map[string]interface{}) { b["price"] = "0" }},
		{"negative price", func(b map[string]interface{}) { b["price"] = "-10.00" }},
		{"negative stock", func(b map[string]interface{}) { b["stock"] = -1 }},
		{"missing stock", func(b map[string]interface{}) { delete(b, "stock") }},
		{"missing section", func(b map[string]interface{}) { delete(b, "section") }},
		{"bad image url", func(b map[string]interface{}) { b["image_urls"] = []string{"not a url"} }},
		{"bad expiry date", func(b map[string]interface{}) { b["expiry_date"] = "31/12/2030" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := newProductRequest("feminino", "89.90", 5)
			tt.mutate(body)

			w := api.do(http.MethodPost, "/products", body, api.adminToken)
			requireStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestProductBarcodeConflict(t *testing.T) {
	api := newTestAPI(t)

	body := newProductRequest("feminino", "89.90", 5)
	body["barcode"] = "7891234567890"
	requireStatus(t, api.do(http.MethodPost, "/products", body, api.adminToken), http.StatusCreated)

	w := api.do(http.MethodPost, "/products", body, api.adminToken)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "barcode already registered", errorMessage(t, w))
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	api := newTestAPI(t)

	product := api.createProduct("feminino", "89.90", 5)
	path := fmt.Sprintf("/products/%d", product.ID)

	w := api.do(http.MethodPut, path, map[string]interface{}{"price": "99.90", "stock": 0}, api.adminToken)
	requireStatus(t, w, http.StatusOK)
	updated := decodeBody[domain.Product](t, w)
	assert.True(t, decimal.RequireFromString("99.90").Equal(updated.Price))
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, product.Section, updated.Section)

	requireStatus(t, api.do(http.MethodPut, path, map[string]interface{}{"price": "0"}, api.adminToken), http.StatusBadRequest)

	requireStatus(t, api.do(http.MethodDelete, path, nil, api.adminToken), http.StatusNoContent)
	requireStatus(t, api.do(http.MethodGet, path, nil, api.userToken), http.StatusNotFound)
}

func TestListProductsFilters(t *testing.T) {
	api := newTestAPI(t)

	api.createProduct("feminino", "50.00", 3)
	api.createProduct("feminino", "150.00", 0)
	api.createProduct("masculino", "80.00", 2)

	tests := []struct {
		query string
		total int
	}{
		{"", 3},
		{"?category=feminino", 2},
		{"?in_stock=true", 2},
		{"?min_price=60", 2},
		{"?max_price=100", 2},
		{"?category=feminino&in_stock=true&max_price=60", 1},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := api.do(http.MethodGet, "/products"+tt.query, nil, api.userToken)
			requireStatus(t, w, http.StatusOK)
			assert.Equal(t, tt.total, decodeBody[domain.PageResult[domain.Product]](t, w).Total)
		})
	}
}

func TestListProductsRejectsBadQuery(t *testing.T) {
	api := newTestAPI(t)

	for _, query := range []string{"?min_price=-1", "?max_price=abc", "?in_stock=maybe", "?size=0"} {
		t.Run(query, func(t *testing.T) {
			requireStatus(t, api.do(http.MethodGet, "/products"+query, nil, api.userToken), http.StatusBadRequest)
		})
	}
}
