package domain

import "errors"

// Common domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Key errors. Messages are returned to clients as-is.
var (
	ErrKeyNotFound           = errors.New("Key not found")
	ErrKeyFieldsRequired     = errors.New("keyNumber and roomNumber are required")
	ErrInvalidKeyType        = errors.New("keyType must be Single, Master or Sub-Master")
	ErrKeyNotAvailable       = errors.New("Key is not available for assignment")
	ErrKeyNotAssigned        = errors.New("Key is not currently assigned")
	ErrAssignmentFields      = errors.New("keyId and personnelId are required")
	ErrAssignmentDueDate     = errors.New("dueDate is required for event assignments")
	ErrInvalidAssignmentType = errors.New("assignmentType must be personal or event")
	ErrInvalidDate           = errors.New("dates must be RFC 3339 or YYYY-MM-DD")
)

// Request errors
var (
	ErrRequestNotFound         = errors.New("Request not found")
	ErrRequestFieldsRequired   = errors.New("personnelId, requestedKeyInfo, and issueDate are required")
	ErrRequestDueDate          = errors.New("dueDate is required for event requests")
	ErrRequestNotPending       = errors.New("Request is not pending")
	ErrApproveKeyRequired      = errors.New("keyId is required")
	ErrSelectedKeyNotFound     = errors.New("Selected key not found")
	ErrSelectedKeyNotAvailable = errors.New("Selected key is not available")
)

// User errors
var (
	ErrUserNotFound       = errors.New("User not found")
	ErrUserFieldsRequired = errors.New("name, department, and email are required")
	ErrSignupFields       = errors.New("Name, email, and password are required")
	ErrLoginFields        = errors.New("Email and password are required")
	ErrEmailAlreadyExists = errors.New("An account with this email already exists.")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidRole        = errors.New("role must be admin or user")
)

// Room, notification and profile errors
var (
	ErrRoomNotFound       = errors.New("Room not found")
	ErrRoomNumberRequired = errors.New("roomNumber is required")
	ErrInvalidPayload     = errors.New("Invalid payload")
	ErrProfileNotFound    = errors.New("Profile not found")
)
