package handlers

import (
	"keytrack/internal/core/domain"
	"keytrack/internal/core/services"
	"keytrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles the activity feed
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// MarkReadRequest represents mark-read request body
type MarkReadRequest struct {
	IDs *[]string `json:"ids"`
}

// Recent handles the latest notifications
// @Summary Recent notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) Recent(c *fiber.Ctx) error {
	list, err := h.notificationService.Recent(c.Context())
	if err != nil {
		return fail(c, err, "Failed to load notifications")
	}

	return response.OK(c, nonNil(list))
}

// Log handles the full activity log
// @Summary Activity log
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Response
// @Router /log [get]
func (h *NotificationHandler) Log(c *fiber.Ctx) error {
	list, err := h.notificationService.Log(c.Context())
	if err != nil {
		return fail(c, err, "Failed to load activity log")
	}

	return response.OK(c, nonNil(list))
}

// MarkRead handles flagging notifications as read
// @Summary Mark notifications read
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body MarkReadRequest true "Notification ids"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /notifications/mark-read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	var req MarkReadRequest
	if err := parseBody(c, &req); err != nil || req.IDs == nil {
		return response.BadRequest(c, domain.ErrInvalidPayload.Error())
	}

	marked, err := h.notificationService.MarkRead(c.Context(), *req.IDs)
	if err != nil {
		return fail(c, err, "Failed to mark notifications")
	}

	return response.OK(c, fiber.Map{"updated": marked})
}
