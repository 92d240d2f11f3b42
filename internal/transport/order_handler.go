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

// OrderItemRequest is one requested product line
type OrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest represents the order creation payload.
// An empty item list is rejected by the order workflow itself.
type CreateOrderRequest struct {
	ClientID int64              `json:"client_id" validate:"required,gt=0"`
	Status   domain.OrderStatus `json:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
	Items    []OrderItemRequest `json:"items" validate:"dive"`
}

// UpdateOrderRequest represents a partial order update
type UpdateOrderRequest struct {
	Status *domain.OrderStatus `json:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.With(adminMiddleware).Delete("/{id}", h.Delete)
	})
}

// List handles GET /orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, page, err := parseOrderQuery(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	result, err := h.orderService.List(r.Context(), filter, page)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

func parseOrderQuery(r *http.Request) (domain.OrderFilter, domain.Page, error) {
	var filter domain.OrderFilter
	q := r.URL.Query()

	page, err := parsePage(r)
	if err != nil {
		return filter, page, err
	}

	if filter.ClientID, err = int64Param(q.Get("client_id"), "client_id"); err != nil {
		return filter, page, err
	}
	if raw := q.Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		filter.Status = &status
	}
	if filter.CreatedAfter, err = timeParam(q.Get("start_date"), "start_date"); err != nil {
		return filter, page, err
	}
	if filter.CreatedBefore, err = timeParam(q.Get("end_date"), "end_date"); err != nil {
		return filter, page, err
	}
	filter.Section = strings.TrimSpace(q.Get("section"))
	return filter, page, nil
}

// Create handles POST /orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	input := domain.OrderInput{
		ClientID: req.ClientID,
		Status:   req.Status,
		Items:    make([]domain.OrderItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, domain.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.orderService.Create(r.Context(), input)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("client_id", order.ClientID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// Get handles GET /orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	order, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Update handles PUT /orders/{id}
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	var req UpdateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	order, err := h.orderService.Update(r.Context(), id, domain.OrderPatch{Status: req.Status})
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Order updated", zap.Int64("order_id", order.ID), zap.String("status", string(order.Status)))
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Order deleted", zap.Int64("order_id", id))
	w.WriteHeader(http.StatusNoContent)
}
