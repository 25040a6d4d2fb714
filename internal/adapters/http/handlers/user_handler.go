package handlers

import (
	"keytrack/internal/core/services"
	"keytrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user (personnel) management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers handles listing users
// @Summary List users
// @Tags Users
// @Produce json
// @Param cursor query string false "Id of the last user of the previous page"
// @Param limit query int false "Page size, 0 for all"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	cursor, limit := listParams(c)

	page, err := h.userService.List(c.Context(), cursor, limit)
	if err != nil {
		return fail(c, err, "Failed to list users")
	}

	return response.OK(c, page)
}

// GetUser handles getting a user
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to get user")
	}

	return response.OK(c, user)
}

// CreateUser handles adding a user
// @Summary Create user
// @Description Name, email and department are required. Role defaults to user.
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.CreateUserInput true "User data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.Create(c.Context(), &input)
	if err != nil {
		return fail(c, err, "Failed to create user")
	}

	return response.OK(c, user)
}

// UpdateUser handles editing a user
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body services.UpdateUserInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var input services.UpdateUserInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.Update(c.Context(), c.Params("id"), &input)
	if err != nil {
		return fail(c, err, "Failed to update user")
	}

	return response.OK(c, user)
}

// DeleteUser handles removing a user
// @Summary Delete user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.userService.Delete(c.Context(), id); err != nil {
		return fail(c, err, "Failed to delete user")
	}

	return response.OK(c, fiber.Map{"id": id})
}

// UserKeys handles the assignments of one user
// @Summary User keys
// @Description Every assignment of the user, with key and user populated
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Router /users/{id}/keys [get]
func (h *UserHandler) UserKeys(c *fiber.Ctx) error {
	keys, err := h.userService.Keys(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to load user keys")
	}

	return response.OK(c, nonNil(keys))
}
