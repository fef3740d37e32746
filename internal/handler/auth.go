package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/service"
)

// AuthHandler exposes registration, login, and token refresh.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register wires the auth routes onto a group.
func (h *AuthHandler) Register(g *echo.Group) {
	g.POST("/register", h.RegisterOrg)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
}

type registerRequest struct {
	OrganizationName string `json:"organization_name" validate:"required,min=2,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Username         string `json:"username" validate:"required,min=3,max=50"`
	Password         string `json:"password" validate:"required,min=8,max=128"`
	FirstName        string `json:"first_name" validate:"required,max=100"`
	LastName         string `json:"last_name" validate:"required,max=100"`
}

type authResponse struct {
	User   *domain.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// RegisterOrg creates an organization with its first admin user.
func (h *AuthHandler) RegisterOrg(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, tokens, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		OrganizationName: req.OrganizationName,
		Email:            req.Email,
		Username:         req.Username,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
	})
	if err != nil {
		return err
	}
	return OK(c, http.StatusCreated, authResponse{User: user, Tokens: tokens})
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, tokens, err := h.auth.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, authResponse{User: user, Tokens: tokens})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokens, err := h.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return OK(c, http.StatusOK, tokens)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return domain.ErrUnauthorized
	}
	return OK(c, http.StatusOK, user)
}
