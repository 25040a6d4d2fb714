package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
)

// RequestService handles the key request workflow
type RequestService struct {
	repos       *repositories.Repositories
	assignments *AssignmentService
	notifier    *NotificationService
	lock        *WorkflowLock
	now         Clock
	populate    populator
}

// NewRequestService creates a new request service
func NewRequestService(
	repos *repositories.Repositories,
	assignments *AssignmentService,
	notifier *NotificationService,
	lock *WorkflowLock,
	now Clock,
) *RequestService {
	return &RequestService{
		repos:       repos,
		assignments: assignments,
		notifier:    notifier,
		lock:        lock,
		now:         now,
		populate:    newPopulator(repos),
	}
}

// SubmitRequestInput represents a new key request
type SubmitRequestInput struct {
	PersonnelID      string                `json:"personnelId"`
	RequestedKeyInfo string                `json:"requestedKeyInfo"`
	AssignmentType   domain.AssignmentType `json:"assignmentType"`
	IssueDate        string                `json:"issueDate"`
	DueDate          string                `json:"dueDate"`
}

// List returns every request with its requester, newest first
func (s *RequestService) List(ctx context.Context) ([]*domain.PopulatedRequest, error) {
	requests, err := s.repos.Requests.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return s.populate.requests(ctx, requests)
}

// Submit creates a Pending request
func (s *RequestService) Submit(ctx context.Context, input *SubmitRequestInput) (*domain.KeyRequest, error) {
	if isBlank(input.PersonnelID) || isBlank(input.RequestedKeyInfo) || isBlank(input.IssueDate) {
		return nil, domain.ErrRequestFieldsRequired
	}

	assignmentType := input.AssignmentType
	if assignmentType == "" {
		assignmentType = domain.AssignmentEvent
	}
	if !assignmentType.Valid() {
		return nil, domain.ErrInvalidAssignmentType
	}
	if assignmentType == domain.AssignmentEvent && isBlank(input.DueDate) {
		return nil, domain.ErrRequestDueDate
	}

	issueDate, err := parseDate(input.IssueDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseOptionalDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	created, err := s.repos.Requests.Create(ctx, &domain.KeyRequest{
		PersonnelID:      input.PersonnelID,
		RequestedKeyInfo: input.RequestedKeyInfo,
		AssignmentType:   assignmentType,
		IssueDate:        issueDate,
		DueDate:          dueDate,
		Status:           domain.RequestPending,
		CreatedAt:        s.now(),
	})
	if err != nil {
		return nil, err
	}

	name := s.populate.userName(ctx, input.PersonnelID)
	s.notifier.Notify(ctx, EventRequestSubmitted, fmt.Sprintf("New key request submitted by %s.", name))
	return created, nil
}

// Approve issues keyID to the requester and marks the request Approved
func (s *RequestService) Approve(ctx context.Context, requestID, keyID string) (*domain.KeyRequest, error) {
	if isBlank(keyID) {
		return nil, domain.ErrApproveKeyRequired
	}

	var (
		approved *domain.KeyRequest
		key      *domain.Key
	)
	err := s.lock.Do(func() error {
		request, err := s.pending(ctx, requestID)
		if err != nil {
			return err
		}

		key, err = s.repos.Keys.Get(ctx, keyID)
		if errors.Is(err, repositories.ErrNotFound) {
			return domain.ErrSelectedKeyNotFound
		}
		if err != nil {
			return err
		}
		if key.Status != domain.KeyStatusAvailable {
			return domain.ErrSelectedKeyNotAvailable
		}

		sg := newSaga("approve request")
		if _, err := s.assignments.issue(ctx, sg, key, &domain.KeyAssignment{
			KeyID:          key.ID,
			PersonnelID:    request.PersonnelID,
			IssueDate:      request.IssueDate,
			AssignmentType: request.AssignmentType,
			DueDate:        request.DueDate,
		}); err != nil {
			return err
		}

		approved, err = s.repos.Requests.Patch(ctx, requestID, func(r *domain.KeyRequest) {
			r.Status = domain.RequestApproved
			r.KeyID = key.ID
		})
		if err != nil {
			return sg.abort(ctx, fmt.Errorf("mark request approved: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	name := s.populate.userName(ctx, approved.PersonnelID)
	s.notifier.Notify(ctx, EventRequestApproved,
		fmt.Sprintf("Key request for %s was approved. Key \"%s\" issued.", name, key.KeyNumber))
	return approved, nil
}

// Reject marks a Pending request Rejected
func (s *RequestService) Reject(ctx context.Context, requestID string) (*domain.KeyRequest, error) {
	var rejected *domain.KeyRequest
	err := s.lock.Do(func() error {
		if _, err := s.pending(ctx, requestID); err != nil {
			return err
		}
		var err error
		rejected, err = s.repos.Requests.Patch(ctx, requestID, func(r *domain.KeyRequest) {
			r.Status = domain.RequestRejected
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	name := s.populate.userName(ctx, rejected.PersonnelID)
	s.notifier.Notify(ctx, EventRequestRejected, fmt.Sprintf("Key request for %s was rejected.", name))
	return rejected, nil
}

func (s *RequestService) pending(ctx context.Context, id string) (*domain.KeyRequest, error) {
	request, err := s.repos.Requests.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestPending {
		return nil, domain.ErrRequestNotPending
	}
	return request, nil
}
