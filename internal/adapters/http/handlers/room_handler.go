package handlers

import (
	"keytrack/internal/core/services"
	"keytrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	roomService *services.RoomService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomService *services.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// ListRooms godoc
// @Summary List rooms
// @Tags Rooms
// @Produce json
// @Param cursor query string false "Id of the last room of the previous page"
// @Param limit query int false "Page size, 0 for all"
// @Success 200 {object} response.Response
// @Router /rooms [get]
func (h *RoomHandler) ListRooms(c *fiber.Ctx) error {
	cursor, limit := listParams(c)

	page, err := h.roomService.List(c.Context(), cursor, limit)
	if err != nil {
		return fail(c, err, "Failed to list rooms")
	}
	return response.OK(c, page)
}

// CreateRoom godoc
// @Summary Create room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param body body services.RoomInput true "Room data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /rooms [post]
func (h *RoomHandler) CreateRoom(c *fiber.Ctx) error {
	var input services.RoomInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	room, err := h.roomService.Create(c.Context(), &input)
	if err != nil {
		return fail(c, err, "Failed to create room")
	}
	return response.OK(c, room)
}

// UpdateRoom godoc
// @Summary Update room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param body body services.UpdateRoomInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /rooms/{id} [put]
func (h *RoomHandler) UpdateRoom(c *fiber.Ctx) error {
	var input services.UpdateRoomInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	room, err := h.roomService.Update(c.Context(), c.Params("id"), &input)
	if err != nil {
		return fail(c, err, "Failed to update room")
	}
	return response.OK(c, room)
}

// DeleteRoom godoc
// @Summary Delete room
// @Tags Rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.roomService.Delete(c.Context(), id); err != nil {
		return fail(c, err, "Failed to delete room")
	}
	return response.OK(c, fiber.Map{"id": id})
}
