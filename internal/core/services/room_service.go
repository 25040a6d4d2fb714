package services

import (
	"context"
	"errors"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
)

// RoomService manages rooms and the key that opens them
type RoomService struct {
	rooms *repositories.RoomRepository
}

// NewRoomService creates a new room service
func NewRoomService(repos *repositories.Repositories) *RoomService {
	return &RoomService{rooms: repos.Rooms}
}

// RoomInput represents create room input
type RoomInput struct {
	RoomNumber  string `json:"roomNumber"`
	Description string `json:"description"`
	KeyID       string `json:"keyId"`
}

// UpdateRoomInput represents a partial room update
type UpdateRoomInput struct {
	RoomNumber  *string `json:"roomNumber"`
	Description *string `json:"description"`
	KeyID       *string `json:"keyId"`
}

// List returns a page of rooms
func (s *RoomService) List(ctx context.Context, cursor string, limit int) (*repositories.Page[domain.Room], error) {
	return s.rooms.List(ctx, cursor, limit)
}

// Create adds a room
func (s *RoomService) Create(ctx context.Context, input *RoomInput) (*domain.Room, error) {
	if isBlank(input.RoomNumber) {
		return nil, domain.ErrRoomNumberRequired
	}
	return s.rooms.Create(ctx, &domain.Room{
		RoomNumber:  input.RoomNumber,
		Description: input.Description,
		KeyID:       input.KeyID,
	})
}

// Update patches a room
func (s *RoomService) Update(ctx context.Context, id string, input *UpdateRoomInput) (*domain.Room, error) {
	if input.RoomNumber != nil && isBlank(*input.RoomNumber) {
		return nil, domain.ErrRoomNumberRequired
	}

	room, err := s.rooms.Patch(ctx, id, func(r *domain.Room) {
		if input.RoomNumber != nil {
			r.RoomNumber = *input.RoomNumber
		}
		if input.Description != nil {
			r.Description = *input.Description
		}
		if input.KeyID != nil {
			r.KeyID = *input.KeyID
		}
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, domain.ErrRoomNotFound
	}
	return room, err
}

// Delete removes a room
func (s *RoomService) Delete(ctx context.Context, id string) error {
	existed, err := s.rooms.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrRoomNotFound
	}
	return nil
}
