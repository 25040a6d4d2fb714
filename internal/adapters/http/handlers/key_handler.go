package handlers

import (
	"keytrack/internal/core/services"
	"keytrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// KeyHandler handles key inventory endpoints
type KeyHandler struct {
	keyService *services.KeyService
}

// NewKeyHandler creates a new key handler
func NewKeyHandler(keyService *services.KeyService) *KeyHandler {
	return &KeyHandler{keyService: keyService}
}

// ListKeys handles listing keys
// @Summary List keys
// @Description Refresh overdue statuses and return a page of keys in creation order
// @Tags Keys
// @Produce json
// @Param cursor query string false "Id of the last key of the previous page"
// @Param limit query int false "Page size, 0 for all"
// @Success 200 {object} response.Response
// @Router /keys [get]
func (h *KeyHandler) ListKeys(c *fiber.Ctx) error {
	cursor, limit := listParams(c)

	page, err := h.keyService.List(c.Context(), cursor, limit)
	if err != nil {
		return fail(c, err, "Failed to list keys")
	}

	return response.OK(c, page)
}

// GetKey handles getting one key
// @Summary Get key
// @Tags Keys
// @Produce json
// @Param id path string true "Key ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /keys/{id} [get]
func (h *KeyHandler) GetKey(c *fiber.Ctx) error {
	key, err := h.keyService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to get key")
	}

	return response.OK(c, key)
}

// CreateKey handles adding a key
// @Summary Create key
// @Description Add an Available key. keyType defaults to Single.
// @Tags Keys
// @Accept json
// @Produce json
// @Param body body services.CreateKeyInput true "Key data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /keys [post]
func (h *KeyHandler) CreateKey(c *fiber.Ctx) error {
	var input services.CreateKeyInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	key, err := h.keyService.Create(c.Context(), &input)
	if err != nil {
		return fail(c, err, "Failed to create key")
	}

	return response.OK(c, key)
}

// UpdateKey handles editing a key
// @Summary Update key
// @Tags Keys
// @Accept json
// @Produce json
// @Param id path string true "Key ID"
// @Param body body services.UpdateKeyInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /keys/{id} [put]
func (h *KeyHandler) UpdateKey(c *fiber.Ctx) error {
	var input services.UpdateKeyInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	key, err := h.keyService.Update(c.Context(), c.Params("id"), &input)
	if err != nil {
		return fail(c, err, "Failed to update key")
	}

	return response.OK(c, key)
}

// DeleteKey handles removing a key
// @Summary Delete key
// @Tags Keys
// @Produce json
// @Param id path string true "Key ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /keys/{id} [delete]
func (h *KeyHandler) DeleteKey(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.keyService.Delete(c.Context(), id); err != nil {
		return fail(c, err, "Failed to delete key")
	}

	return response.OK(c, fiber.Map{"id": id})
}

// ReturnKey handles a key return
// @Summary Return key
// @Description Close the active assignment and make the key Available
// @Tags Keys
// @Produce json
// @Param id path string true "Key ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /keys/{id}/return [post]
func (h *KeyHandler) ReturnKey(c *fiber.Ctx) error {
	key, err := h.keyService.Return(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to return key")
	}

	return response.OK(c, key)
}

// ReportLost handles a lost key report
// @Summary Report key lost
// @Tags Keys
// @Produce json
// @Param id path string true "Key ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /keys/{id}/lost [post]
func (h *KeyHandler) ReportLost(c *fiber.Ctx) error {
	key, err := h.keyService.ReportLost(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to report key lost")
	}

	return response.OK(c, key)
}

// History handles the assignment history of a key
// @Summary Key history
// @Description Assignments of the key with key and user, newest first
// @Tags Keys
// @Produce json
// @Param id path string true "Key ID"
// @Success 200 {object} response.Response
// @Router /keys/{id}/history [get]
func (h *KeyHandler) History(c *fiber.Ctx) error {
	history, err := h.keyService.History(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to load key history")
	}

	return response.OK(c, nonNil(history))
}
