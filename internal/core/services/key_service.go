package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
	"keytrack/internal/pkg/metrics"
)

// KeyService handles the key inventory and the return and lost transitions
type KeyService struct {
	repos    *repositories.Repositories
	overdue  *OverdueService
	notifier *NotificationService
	lock     *WorkflowLock
	now      Clock
	populate populator
}

// NewKeyService creates a new key service
func NewKeyService(
	repos *repositories.Repositories,
	overdue *OverdueService,
	notifier *NotificationService,
	lock *WorkflowLock,
	now Clock,
) *KeyService {
	return &KeyService{
		repos:    repos,
		overdue:  overdue,
		notifier: notifier,
		lock:     lock,
		now:      now,
		populate: newPopulator(repos),
	}
}

// CreateKeyInput represents create key input
type CreateKeyInput struct {
	KeyNumber  string `json:"keyNumber"`
	KeyType    string `json:"keyType"`
	RoomNumber string `json:"roomNumber"`
}

// UpdateKeyInput represents a partial key update
type UpdateKeyInput struct {
	KeyNumber  *string `json:"keyNumber"`
	KeyType    *string `json:"keyType"`
	RoomNumber *string `json:"roomNumber"`
}

// List returns a page of keys after refreshing overdue statuses
func (s *KeyService) List(ctx context.Context, cursor string, limit int) (*repositories.Page[domain.Key], error) {
	if err := s.overdue.SweepOnRead(ctx); err != nil {
		return nil, err
	}
	return s.repos.Keys.List(ctx, cursor, limit)
}

// Get returns one key
func (s *KeyService) Get(ctx context.Context, id string) (*domain.Key, error) {
	key, err := s.repos.Keys.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, domain.ErrKeyNotFound
	}
	return key, err
}

// Create adds an Available key
func (s *KeyService) Create(ctx context.Context, input *CreateKeyInput) (*domain.Key, error) {
	if isBlank(input.KeyNumber) || isBlank(input.RoomNumber) {
		return nil, domain.ErrKeyFieldsRequired
	}

	keyType := strings.TrimSpace(input.KeyType)
	if keyType == "" {
		keyType = domain.KeyTypeSingle
	}
	if !domain.ValidKeyType(keyType) {
		return nil, domain.ErrInvalidKeyType
	}

	return s.repos.Keys.Create(ctx, &domain.Key{
		KeyNumber:  input.KeyNumber,
		KeyType:    keyType,
		RoomNumber: input.RoomNumber,
		Status:     domain.KeyStatusAvailable,
	})
}

// Update changes the descriptive fields of a key. Status is never touched here.
func (s *KeyService) Update(ctx context.Context, id string, input *UpdateKeyInput) (*domain.Key, error) {
	if input.KeyType != nil && !domain.ValidKeyType(*input.KeyType) {
		return nil, domain.ErrInvalidKeyType
	}

	key, err := s.repos.Keys.Patch(ctx, id, func(k *domain.Key) {
		if input.KeyNumber != nil {
			k.KeyNumber = *input.KeyNumber
		}
		if input.KeyType != nil {
			k.KeyType = *input.KeyType
		}
		if input.RoomNumber != nil {
			k.RoomNumber = *input.RoomNumber
		}
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, domain.ErrKeyNotFound
	}
	return key, err
}

// Delete removes a key. Assignments that reference it are kept.
func (s *KeyService) Delete(ctx context.Context, id string) error {
	existed, err := s.repos.Keys.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrKeyNotFound
	}
	return nil
}

// Return closes the key's active assignment and makes the key Available
func (s *KeyService) Return(ctx context.Context, id string) (*domain.Key, error) {
	var result *domain.Key
	err := s.lock.Do(func() error {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}

		assignments, err := s.repos.Assignments.All(ctx)
		if err != nil {
			return err
		}
		active := activeAssignmentFor(assignments, id)
		if active == nil {
			return domain.ErrKeyNotAssigned
		}

		sg := newSaga("return key")
		returnedAt := s.now()
		if _, err := s.repos.Assignments.Patch(ctx, active.ID, func(a *domain.KeyAssignment) {
			a.ReturnDate = &returnedAt
		}); err != nil {
			return sg.abort(ctx, fmt.Errorf("close assignment: %w", err))
		}
		sg.done("close assignment", func(ctx context.Context) error {
			_, err := s.repos.Assignments.Patch(ctx, active.ID, func(a *domain.KeyAssignment) {
				a.ReturnDate = nil
			})
			return err
		})

		updated, err := s.repos.Keys.Patch(ctx, id, func(k *domain.Key) {
			k.Status = domain.KeyStatusAvailable
			k.CurrentHolderID = ""
		})
		if err != nil {
			return sg.abort(ctx, fmt.Errorf("release key: %w", err))
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.KeyTransitions.WithLabelValues("returned").Inc()
	s.notifier.Notify(ctx, EventKeyReturned, fmt.Sprintf("Key \"%s\" was returned.", result.KeyNumber))
	return result, nil
}

// ReportLost marks a key Lost whatever its current status
func (s *KeyService) ReportLost(ctx context.Context, id string) (*domain.Key, error) {
	var result *domain.Key
	err := s.lock.Do(func() error {
		key, err := s.repos.Keys.Patch(ctx, id, func(k *domain.Key) {
			k.Status = domain.KeyStatusLost
		})
		if errors.Is(err, repositories.ErrNotFound) {
			return domain.ErrKeyNotFound
		}
		result = key
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.KeyTransitions.WithLabelValues("lost").Inc()
	s.notifier.Notify(ctx, EventKeyLost, fmt.Sprintf("Key \"%s\" was reported lost.", result.KeyNumber))
	return result, nil
}

// History returns every assignment of the key, newest first
func (s *KeyService) History(ctx context.Context, id string) ([]*domain.PopulatedAssignment, error) {
	assignments, err := s.repos.Assignments.All(ctx)
	if err != nil {
		return nil, err
	}

	var matching []*domain.KeyAssignment
	for _, a := range assignments {
		if a.KeyID == id {
			matching = append(matching, a)
		}
	}
	sortByIssueDateDesc(matching)

	return s.populate.assignments(ctx, matching)
}
