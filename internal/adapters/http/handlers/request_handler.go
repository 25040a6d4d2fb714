package handlers

import (
	"keytrack/internal/core/services"
	"keytrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles the key request workflow
type RequestHandler struct {
	requestService *services.RequestService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// ApproveRequest represents approve request body
type ApproveRequest struct {
	KeyID string `json:"keyId"`
}

// List handles listing requests
// @Summary List key requests
// @Description Requests with their requester, newest first
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Response
// @Router /requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	requests, err := h.requestService.List(c.Context())
	if err != nil {
		return fail(c, err, "Failed to list requests")
	}

	return response.OK(c, nonNil(requests))
}

// Submit handles a new request
// @Summary Submit key request
// @Tags Requests
// @Accept json
// @Produce json
// @Param body body services.SubmitRequestInput true "Request data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /requests [post]
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	var input services.SubmitRequestInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	request, err := h.requestService.Submit(c.Context(), &input)
	if err != nil {
		return fail(c, err, "Failed to submit request")
	}

	return response.OK(c, request)
}

// Approve handles approving a request
// @Summary Approve key request
// @Description Issue the selected key to the requester
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param body body ApproveRequest true "Key to issue"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	var req ApproveRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	request, err := h.requestService.Approve(c.Context(), c.Params("id"), req.KeyID)
	if err != nil {
		return fail(c, err, "Failed to approve request")
	}

	return response.OK(c, request)
}

// Reject handles rejecting a request
// @Summary Reject key request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	request, err := h.requestService.Reject(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to reject request")
	}

	return response.OK(c, request)
}
