package handlers

import (
	"errors"
	"log"
	"strconv"

	"keytrack/internal/core/domain"
	"keytrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

var notFoundErrors = []error{
	domain.ErrKeyNotFound,
	domain.ErrSelectedKeyNotFound,
	domain.ErrUserNotFound,
	domain.ErrRequestNotFound,
	domain.ErrRoomNotFound,
	domain.ErrProfileNotFound,
}

var badRequestErrors = []error{
	domain.ErrKeyFieldsRequired,
	domain.ErrInvalidKeyType,
	domain.ErrKeyNotAvailable,
	domain.ErrKeyNotAssigned,
	domain.ErrAssignmentFields,
	domain.ErrAssignmentDueDate,
	domain.ErrInvalidAssignmentType,
	domain.ErrInvalidDate,
	domain.ErrRequestFieldsRequired,
	domain.ErrRequestDueDate,
	domain.ErrRequestNotPending,
	domain.ErrApproveKeyRequired,
	domain.ErrSelectedKeyNotAvailable,
	domain.ErrUserFieldsRequired,
	domain.ErrSignupFields,
	domain.ErrLoginFields,
	domain.ErrEmailAlreadyExists,
	domain.ErrInvalidCredentials,
	domain.ErrInvalidRole,
	domain.ErrRoomNumberRequired,
	domain.ErrInvalidPayload,
}

func matches(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// fail maps a service error to the matching status. Domain errors carry
// the client-facing message; anything else is logged and reported as fallback.
func fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case matches(err, notFoundErrors):
		return response.NotFound(c, err.Error())
	case matches(err, badRequestErrors):
		return response.BadRequest(c, err.Error())
	default:
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, fallback)
	}
}

// parseBody decodes the JSON body, treating an empty body as an empty object
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return domain.ErrInvalidPayload
	}
	return nil
}

// listParams reads the cursor and limit query parameters
func listParams(c *fiber.Ctx) (string, int) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		limit = 0
	}
	return c.Query("cursor"), limit
}

// nonNil turns a nil slice into an empty one so it encodes as []
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
