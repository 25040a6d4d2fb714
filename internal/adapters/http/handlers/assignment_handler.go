package handlers

import (
	"keytrack/internal/core/services"
	"keytrack/internal/pkg/pagination"
	"keytrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AssignmentHandler handles key issue and assignment listings
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// Issue handles a direct key issue
// @Summary Issue key
// @Description Issue an Available key. Event assignments need a dueDate.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param body body services.IssueKeyInput true "Assignment data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /assignments [post]
func (h *AssignmentHandler) Issue(c *fiber.Ctx) error {
	var input services.IssueKeyInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	assignment, err := h.assignmentService.Issue(c.Context(), &input)
	if err != nil {
		return fail(c, err, "Failed to issue key")
	}

	return response.OK(c, assignment)
}

// Recent handles the dashboard activity list
// @Summary Recent assignments
// @Description The five latest assignments by issue date
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Response
// @Router /assignments/recent [get]
func (h *AssignmentHandler) Recent(c *fiber.Ctx) error {
	recent, err := h.assignmentService.Recent(c.Context())
	if err != nil {
		return fail(c, err, "Failed to load recent assignments")
	}

	return response.OK(c, nonNil(recent))
}

// List handles the paginated assignment log
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	all, err := h.assignmentService.All(c.Context())
	if err != nil {
		return fail(c, err, "Failed to list assignments")
	}

	return response.OK(c, pagination.Slice(all, params))
}
