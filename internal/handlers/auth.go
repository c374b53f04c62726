package handlers

import (
	"errors"

	"fundflow/internal/services/auth"
	"fundflow/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(s auth.Service) *AuthHandler { return &AuthHandler{service: s} }

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "email and password are required")
	}

	user, err := h.service.Register(c.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return response.BadRequest(c, "email already registered")
		}
		return response.ServerError(c, "registration failed")
	}

	return response.Success(c, "registered", fiber.Map{
		"user_id":   user.ID,
		"wallet_id": user.WalletID,
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	user, token, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return response.Unauthorized(c, "invalid credentials")
	}

	return response.Success(c, "logged in", fiber.Map{
		"token":     token,
		"user_id":   user.ID,
		"wallet_id": user.WalletID,
	})
}
