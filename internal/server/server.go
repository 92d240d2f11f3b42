package server

import (
	"fmt"
	"net/http"
	"time"

	"lu-estilo/internal/config"
	"lu-estilo/internal/database"
	custommiddleware "lu-estilo/internal/middleware"
	"lu-estilo/internal/repository"
	"lu-estilo/internal/service"
	"lu-estilo/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Version is reported by the API info endpoint
const Version = "1.0.0"

type Server struct {
	*http.Server
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	router := NewRouter(cfg, logger, repository.NewStore(db.DB()), db, redisClient)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

// NewRouter wires every handler on top of store. A nil redisClient disables rate limiting.
func NewRouter(cfg *config.Config, logger *zap.Logger, store repository.Store, health transport.HealthChecker, redisClient *redis.Client) http.Handler {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Initialize services
	tokenTTL := time.Duration(cfg.JWT.AccessExpiry) * time.Minute
	userService := service.NewUserService(store, cfg.JWT.Secret, tokenTTL)
	clientService := service.NewClientService(store)
	productService := service.NewProductService(store)
	orderService := service.NewOrderService(store)

	authMiddleware := custommiddleware.AuthMiddleware(userService, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	var limiter func(http.Handler) http.Handler
	if redisClient != nil {
		limiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			KeyPrefix:         "ratelimit:auth",
		}, logger)
	}

	// Register routes
	transport.NewHealthHandler(health, Version).RegisterRoutes(router)
	transport.NewAuthHandler(userService, logger).RegisterRoutes(router, authMiddleware, limiter)
	transport.NewClientHandler(clientService, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	transport.NewOrderHandler(orderService, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)

	return router
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
