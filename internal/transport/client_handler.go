package transport

import (
	"net/http"
	"strings"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/middleware"
	"lu-estilo/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateClientRequest represents the client creation payload
type CreateClientRequest struct {
	Name       string  `json:"name" validate:"required,max=100"`
	Email      string  `json:"email" validate:"required,email"`
	NationalID string  `json:"national_id" validate:"required,len=11,numeric"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Address    *string `json:"address" validate:"omitempty,max=200"`
}

// UpdateClientRequest represents a partial client update. The national ID cannot change.
type UpdateClientRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Address *string `json:"address" validate:"omitempty,max=200"`
}

// ClientHandler handles HTTP requests for clients
type ClientHandler struct {
	clientService service.ClientService
	logger        *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// RegisterRoutes registers all client routes
func (h *ClientHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/clients", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.With(adminMiddleware).Delete("/{id}", h.Delete)
	})
}

// List handles GET /clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	filter := domain.ClientFilter{
		Name:  strings.TrimSpace(r.URL.Query().Get("name")),
		Email: strings.TrimSpace(r.URL.Query().Get("email")),
	}

	result, err := h.clientService.List(r.Context(), filter, page)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// Create handles POST /clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	client, err := h.clientService.Create(r.Context(), &domain.Client{
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Address:    req.Address,
	})
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Client created", zap.Int64("client_id", client.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, client)
}

// Get handles GET /clients/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	client, err := h.clientService.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, client)
}

// Update handles PUT /clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	var req UpdateClientRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	client, err := h.clientService.Update(r.Context(), id, domain.ClientPatch{
		Name:    trimmed(req.Name),
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Client updated", zap.Int64("client_id", client.ID))
	middleware.RespondWithJSON(w, http.StatusOK, client)
}

// Delete handles DELETE /clients/{id}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Client deleted", zap.Int64("client_id", id))
	w.WriteHeader(http.StatusNoContent)
}
