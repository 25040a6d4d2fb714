package services

import (
	"context"
	"errors"
	"fmt"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
	"keytrack/internal/pkg/metrics"
)

// RecentAssignmentLimit is the size of the dashboard's recent activity list
const RecentAssignmentLimit = 5

// AssignmentService issues keys and lists assignment history
type AssignmentService struct {
	repos    *repositories.Repositories
	notifier *NotificationService
	lock     *WorkflowLock
	now      Clock
	populate populator
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	repos *repositories.Repositories,
	notifier *NotificationService,
	lock *WorkflowLock,
	now Clock,
) *AssignmentService {
	return &AssignmentService{
		repos:    repos,
		notifier: notifier,
		lock:     lock,
		now:      now,
		populate: newPopulator(repos),
	}
}

// IssueKeyInput represents a direct key issue.
// Dates accept RFC 3339 or YYYY-MM-DD. IssueDate defaults to now, AssignmentType to event.
type IssueKeyInput struct {
	KeyID          string                `json:"keyId"`
	PersonnelID    string                `json:"personnelId"`
	AssignmentType domain.AssignmentType `json:"assignmentType"`
	IssueDate      string                `json:"issueDate"`
	DueDate        string                `json:"dueDate"`
}

// Issue hands an Available key to a person
func (s *AssignmentService) Issue(ctx context.Context, input *IssueKeyInput) (*domain.KeyAssignment, error) {
	if isBlank(input.KeyID) || isBlank(input.PersonnelID) {
		return nil, domain.ErrAssignmentFields
	}

	assignmentType := input.AssignmentType
	if assignmentType == "" {
		assignmentType = domain.AssignmentEvent
	}
	if !assignmentType.Valid() {
		return nil, domain.ErrInvalidAssignmentType
	}
	if assignmentType == domain.AssignmentEvent && isBlank(input.DueDate) {
		return nil, domain.ErrAssignmentDueDate
	}

	issueDate := s.now()
	if !isBlank(input.IssueDate) {
		parsed, err := parseDate(input.IssueDate)
		if err != nil {
			return nil, err
		}
		issueDate = parsed
	}
	dueDate, err := parseOptionalDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	var (
		created *domain.KeyAssignment
		key     *domain.Key
	)
	err = s.lock.Do(func() error {
		key, err = s.repos.Keys.Get(ctx, input.KeyID)
		if errors.Is(err, repositories.ErrNotFound) {
			return domain.ErrKeyNotAvailable
		}
		if err != nil {
			return err
		}
		if key.Status != domain.KeyStatusAvailable {
			return domain.ErrKeyNotAvailable
		}

		created, err = s.issue(ctx, newSaga("issue key"), key, &domain.KeyAssignment{
			KeyID:          key.ID,
			PersonnelID:    input.PersonnelID,
			IssueDate:      issueDate,
			AssignmentType: assignmentType,
			DueDate:        dueDate,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	name := s.populate.userName(ctx, input.PersonnelID)
	s.notifier.Notify(ctx, EventKeyIssued, fmt.Sprintf("Key \"%s\" issued to %s.", key.KeyNumber, name))
	return created, nil
}

// issue creates the assignment and marks the key Issued, registering
// both undo steps on sg. The caller holds the workflow lock and has
// checked that key is Available. On failure sg is already rolled back.
func (s *AssignmentService) issue(
	ctx context.Context,
	sg *saga,
	key *domain.Key,
	assignment *domain.KeyAssignment,
) (*domain.KeyAssignment, error) {
	created, err := s.repos.Assignments.Create(ctx, assignment)
	if err != nil {
		return nil, sg.abort(ctx, fmt.Errorf("create assignment: %w", err))
	}
	sg.done("create assignment", func(ctx context.Context) error {
		_, err := s.repos.Assignments.Delete(ctx, created.ID)
		return err
	})

	previous := *key
	if _, err := s.repos.Keys.Patch(ctx, key.ID, func(k *domain.Key) {
		k.Status = domain.KeyStatusIssued
		k.CurrentHolderID = created.PersonnelID
	}); err != nil {
		return nil, sg.abort(ctx, fmt.Errorf("mark key issued: %w", err))
	}
	sg.done("mark key issued", func(ctx context.Context) error {
		return s.repos.Keys.Put(ctx, previous.ID, &previous)
	})

	metrics.KeyTransitions.WithLabelValues("issued").Inc()
	return created, nil
}

// All returns every assignment populated with key and user, newest first
func (s *AssignmentService) All(ctx context.Context) ([]*domain.PopulatedAssignment, error) {
	assignments, err := s.repos.Assignments.All(ctx)
	if err != nil {
		return nil, err
	}
	sortByIssueDateDesc(assignments)
	return s.populate.assignments(ctx, assignments)
}

// Recent returns the latest assignments by issue date
func (s *AssignmentService) Recent(ctx context.Context) ([]*domain.PopulatedAssignment, error) {
	assignments, err := s.repos.Assignments.All(ctx)
	if err != nil {
		return nil, err
	}
	sortByIssueDateDesc(assignments)
	if len(assignments) > RecentAssignmentLimit {
		assignments = assignments[:RecentAssignmentLimit]
	}
	return s.populate.assignments(ctx, assignments)
}

// ForUser returns every assignment held by a person, in creation order
func (s *AssignmentService) ForUser(ctx context.Context, userID string) ([]*domain.PopulatedAssignment, error) {
	assignments, err := s.repos.Assignments.All(ctx)
	if err != nil {
		return nil, err
	}

	var matching []*domain.KeyAssignment
	for _, a := range assignments {
		if a.PersonnelID == userID {
			matching = append(matching, a)
		}
	}
	return s.populate.assignments(ctx, matching)
}
