package transport

import (
	"fmt"
	"net/http"
	"testing"

	"lu-estilo/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientRequest(email, nationalID string) CreateClientRequest {
	phone := "(11) 99999-8888"
	return CreateClientRequest{
		Name:       "Maria Silva Santos",
		Email:      email,
		NationalID: nationalID,
		Phone:      &phone,
	}
}

func TestClientRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/clients", nil, "")
	requireStatus(t, w, http.StatusUnauthorized)

	w = api.do(http.MethodGet, "/clients", nil, "not-a-token")
	requireStatus(t, w, http.StatusUnauthorized)
}

func TestCreateAndGetClient(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/clients", newClientRequest("maria@email.com", "12345678901"), api.userToken)
	requireStatus(t, w, http.StatusCreated)
	created := decodeBody[domain.Client](t, w)
	require.NotZero(t, created.ID)

	w = api.do(http.MethodGet, fmt.Sprintf("/clients/%d", created.ID), nil, api.userToken)
	requireStatus(t, w, http.StatusOK)
	fetched := decodeBody[domain.Client](t, w)
	assert.Equal(t, "maria@email.com", fetched.Email)
	assert.Equal(t, "12345678901", fetched.NationalID)
}

func TestCreateClientValidation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body CreateClientRequest
	}{
		{"short national id", newClientRequest("a@email.com", "1234")},
		{"non numeric national id", newClientRequest("a@email.com", "1234567890x")},
		{"bad email", newClientRequest("not-an-email", "12345678901")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/clients", tt.body, api.userToken)
			requireStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestCreateClientConflicts(t *testing.T) {
	api := newTestAPI(t)

	requireStatus(t, api.do(http.MethodPost, "/clients", newClientRequest("maria@email.com", "12345678901"), api.userToken), http.StatusCreated)

	w := api.do(http.MethodPost, "/clients", newClientRequest("maria@email.com", "10987654321"), api.userToken)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "email already registered", errorMessage(t, w))

	w = api.do(http.MethodPost, "/clients", newClientRequest("other@email.com", "12345678901"), api.userToken)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "national ID already registered", errorMessage(t, w))
}

func TestUpdateClient(t *testing.T) {
	api := newTestAPI(t)

	requireStatus(t, api.do(http.MethodPost, "/clients", newClientRequest("taken@email.com", "10987654321"), api.userToken), http.StatusCreated)
	w := api.do(http.MethodPost, "/clients", newClientRequest("maria@email.com", "12345678901"), api.userToken)
	id := decodeBody[domain.Client](t, w).ID

	address := "Av. Paulista, 456"
	w = api.do(http.MethodPut, fmt.Sprintf("/clients/%d", id), UpdateClientRequest{Address: &address}, api.userToken)
	requireStatus(t, w, http.StatusOK)
	updated := decodeBody[domain.Client](t, w)
	assert.Equal(t, "maria@email.com", updated.Email)
	require.NotNil(t, updated.Address)
	assert.Equal(t, address, *updated.Address)

	taken := "taken@email.com"
	w = api.do(http.MethodPut, fmt.Sprintf("/clients/%d", id), UpdateClientRequest{Email: &taken}, api.userToken)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "email already registered to another client", errorMessage(t, w))

	w = api.do(http.MethodPut, "/clients/9999", UpdateClientRequest{Address: &address}, api.userToken)
	requireStatus(t, w, http.StatusNotFound)
}

func TestDeleteClientRequiresAdmin(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/clients", newClientRequest("maria@email.com", "12345678901"), api.userToken)
	path := fmt.Sprintf("/clients/%d", decodeBody[domain.Client](t, w).ID)

	requireStatus(t, api.do(http.MethodDelete, path, nil, api.userToken), http.StatusForbidden)
	requireStatus(t, api.do(http.MethodDelete, path, nil, api.adminToken), http.StatusNoContent)
	requireStatus(t, api.do(http.MethodGet, path, nil, api.userToken), http.StatusNotFound)
	requireStatus(t, api.do(http.MethodDelete, path, nil, api.adminToken), http.StatusNotFound)
}

func TestGetClientRejectsMalformedID(t *testing.T) {
	api := newTestAPI(t)

	requireStatus(t, api.do(http.MethodGet, "/clients/abc", nil, api.userToken), http.StatusBadRequest)
	requireStatus(t, api.do(http.MethodGet, "/clients/0", nil, api.userToken), http.StatusBadRequest)
}

func TestListClientsFiltersAndPaginates(t *testing.T) {
	api := newTestAPI(t)

	for i := 0; i < 3; i++ {
		req := newClientRequest(fmt.Sprintf("ana%d@email.com", i), fmt.Sprintf("1234567890%d", i))
		req.Name = fmt.Sprintf("Ana %d", i)
		requireStatus(t, api.do(http.MethodPost, "/clients", req, api.userToken), http.StatusCreated)
	}
	requireStatus(t, api.do(http.MethodPost, "/clients", newClientRequest("bia@email.com", "99999999999"), api.userToken), http.StatusCreated)

	w := api.do(http.MethodGet, "/clients?name=ana&size=2", nil, api.userToken)
	requireStatus(t, w, http.StatusOK)
	page := decodeBody[domain.PageResult[domain.Client]](t, w)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Size)

	w = api.do(http.MethodGet, "/clients?name=ana&size=2&page=2", nil, api.userToken)
	page = decodeBody[domain.PageResult[domain.Client]](t, w)
	assert.Len(t, page.Items, 1)

	w = api.do(http.MethodGet, "/clients?email=BIA", nil, api.userToken)
	page = decodeBody[domain.PageResult[domain.Client]](t, w)
	assert.Equal(t, 1, page.Total)
}

func TestListClientsRejectsOverflowingPage(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/clients?page=9223372036854775807&size=100", nil, api.userToken)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "page is too large", errorMessage(t, w))
}

// Feature: sales-api, Property 18: Pagination parameters are bounded
func TestProperty_PaginationParametersAreBounded(t *testing.T) {
	api := newTestAPI(t)
	properties := gopter.NewProperties(nil)

	properties.Property("page below 1 or size outside [1,100] is rejected", prop.ForAll(
		func(page, size int) bool {
			w := api.do(http.MethodGet, fmt.Sprintf("/clients?page=%d&size=%d", page, size), nil, api.userToken)

			valid := page >= 1 && size >= 1 && size <= domain.MaxPageSize
			if valid {
				return w.Code == http.StatusOK
			}
			return w.Code == http.StatusBadRequest
		},
		gen.IntRange(-5, 5),
		gen.IntRange(-10, 150),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
