package transport

import (
	"net/http"
	"strings"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/middleware"
	"lu-estilo/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0"`
	Barcode     *string         `json:"barcode" validate:"omitempty,min=1"`
	Section     string          `json:"section" validate:"required"`
	Stock       *int            `json:"stock" validate:"required,gte=0"`
	ExpiryDate  *domain.Date    `json:"expiry_date"`
	ImageURLs   []string        `json:"image_urls" validate:"omitempty,dive,url"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Description *string          `json:"description" validate:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	Barcode     *string          `json:"barcode" validate:"omitempty,min=1"`
	Section     *string          `json:"section" validate:"omitempty,min=1"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	ExpiryDate  *domain.Date     `json:"expiry_date"`
	ImageURLs   *[]string        `json:"image_urls" validate:"omitempty,dive,url"`
}

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes. Reads need a token, writes need the admin role.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/products", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, page, err := parseProductQuery(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	result, err := h.productService.List(r.Context(), filter, page)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

func parseProductQuery(r *http.Request) (domain.ProductFilter, domain.Page, error) {
	var filter domain.ProductFilter
	q := r.URL.Query()

	page, err := parsePage(r)
	if err != nil {
		return filter, page, err
	}

	filter.Section = strings.TrimSpace(q.Get("category"))
	if filter.MinPrice, err = priceParam(q.Get("min_price"), "min_price"); err != nil {
		return filter, page, err
	}
	if filter.MaxPrice, err = priceParam(q.Get("max_price"), "max_price"); err != nil {
		return filter, page, err
	}
	if filter.InStock, err = boolParam(q.Get("in_stock"), "in_stock"); err != nil {
		return filter, page, err
	}
	return filter, page, nil
}

// Create handles POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	product, err := h.productService.Create(r.Context(), &domain.Product{
		Description: req.Description,
		Price:       req.Price,
		Barcode:     req.Barcode,
		Section:     req.Section,
		Stock:       *req.Stock,
		ExpiryDate:  req.ExpiryDate,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Get handles GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Update handles PUT /products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, domain.ProductPatch{
		Description: req.Description,
		Price:       req.Price,
		Barcode:     req.Barcode,
		Section:     req.Section,
		Stock:       req.Stock,
		ExpiryDate:  req.ExpiryDate,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}
