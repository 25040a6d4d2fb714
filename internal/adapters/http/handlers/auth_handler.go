package handlers

import (
	"keytrack/internal/core/services"
	"keytrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles sign-up and login
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup handles self-registration
// @Summary Sign up
// @Description Create a user account with role "user"
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.SignupInput true "Account data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input services.SignupInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.authService.Signup(c.Context(), &input)
	if err != nil {
		return fail(c, err, "Failed to sign up")
	}

	return response.OK(c, user)
}

// Login handles login
// @Summary Login
// @Description Check credentials and return the user with an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.authService.Login(c.Context(), &input)
	if err != nil {
		return fail(c, err, "Failed to log in")
	}

	return response.OK(c, result)
}
