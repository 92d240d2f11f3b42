package transport

import (
	"errors"
	"mime"
	"net/http"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/middleware"
	"lu-estilo/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username string      `json:"username" validate:"required,min=3,max=50"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     domain.Role `json:"role" validate:"omitempty,oneof=admin user"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	IsActive bool        `json:"is_active"`
}

func newUserProfile(user *domain.User) UserProfile {
	return UserProfile{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes mounts the /auth routes. The limiter, when not nil, guards every route of the group.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, limiter func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter)
		}

		r.Post("/login", h.Login)
		r.Post("/register", h.Register)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/refresh-token", h.RefreshToken)
		})
	})
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("User registered successfully", zap.Int64("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, newUserProfile(user))
}

// Login authenticates by username and password, sent either as JSON or as an OAuth2 password form
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(r)
	if err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	accessToken, user, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.logger.Debug("Login failed", zap.String("username", req.Username))
			w.Header().Set("WWW-Authenticate", "Bearer")
			middleware.RespondWithError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrInactiveUser):
			middleware.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			middleware.RespondWithServiceError(w, h.logger, err)
		}
		return
	}

	h.logger.Info("User logged in successfully", zap.Int64("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusOK, TokenResponse{AccessToken: accessToken, TokenType: service.TokenType})
}

func decodeLogin(r *http.Request) (LoginRequest, error) {
	var req LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" && mediaType != "multipart/form-data" {
		err := middleware.DecodeAndValidate(r, &req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Username = r.PostFormValue("username")
	req.Password = r.PostFormValue("password")
	return req, middleware.ValidateRequest(&req)
}

// RefreshToken issues a new access token for the authenticated caller
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	accessToken, err := h.userService.RefreshToken(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			w.Header().Set("WWW-Authenticate", "Bearer")
			middleware.RespondWithError(w, http.StatusUnauthorized, "could not validate credentials")
		case errors.Is(err, service.ErrInactiveUser):
			middleware.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			middleware.RespondWithServiceError(w, h.logger, err)
		}
		return
	}

	h.logger.Info("Token refreshed successfully", zap.Int64("user_id", userID))
	middleware.RespondWithJSON(w, http.StatusOK, TokenResponse{AccessToken: accessToken, TokenType: service.TokenType})
}
