package services

import (
	"context"
	"sort"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
)

// ReportService builds the reports page aggregates
type ReportService struct {
	repos   *repositories.Repositories
	overdue *OverdueService
}

// NewReportService creates a new report service
func NewReportService(repos *repositories.Repositories, overdue *OverdueService) *ReportService {
	return &ReportService{
		repos:   repos,
		overdue: overdue,
	}
}

// Summary returns the status distribution, the keys held per department
// and the list of overdue keys with their holders
func (s *ReportService) Summary(ctx context.Context) (*domain.ReportSummary, error) {
	if err := s.overdue.SweepOnRead(ctx); err != nil {
		return nil, err
	}

	keys, err := s.repos.Keys.All(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.repos.Users.All(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repos.Assignments.All(ctx)
	if err != nil {
		return nil, err
	}

	usersByID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	return &domain.ReportSummary{
		StatusDistribution: statusDistribution(keys),
		DepartmentActivity: departmentActivity(assignments, usersByID),
		OverdueKeys:        overdueKeys(keys, assignments, usersByID),
	}, nil
}

func statusDistribution(keys []*domain.Key) []domain.StatusCount {
	counts := make(map[domain.KeyStatus]int, len(domain.KeyStatuses))
	for _, k := range keys {
		counts[k.Status]++
	}

	out := make([]domain.StatusCount, 0, len(domain.KeyStatuses))
	for _, status := range domain.KeyStatuses {
		out = append(out, domain.StatusCount{Name: status, Value: counts[status]})
	}
	return out
}

// departmentActivity counts active assignments by the holder's department.
// Assignments whose user is gone are not counted.
func departmentActivity(assignments []*domain.KeyAssignment, users map[string]*domain.User) []domain.DepartmentCount {
	counts := make(map[string]int)
	for _, a := range assignments {
		if !a.IsActive() {
			continue
		}
		if u, ok := users[a.PersonnelID]; ok {
			counts[u.Department]++
		}
	}

	out := make([]domain.DepartmentCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, domain.DepartmentCount{Name: name, Keys: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func overdueKeys(keys []*domain.Key, assignments []*domain.KeyAssignment, users map[string]*domain.User) []domain.OverdueKeyInfo {
	out := make([]domain.OverdueKeyInfo, 0)
	for _, k := range keys {
		if k.Status != domain.KeyStatusOverdue {
			continue
		}
		a := activeAssignmentFor(assignments, k.ID)
		if a == nil || a.DueDate == nil {
			continue
		}

		info := domain.OverdueKeyInfo{
			KeyNumber:  k.KeyNumber,
			RoomNumber: k.RoomNumber,
			UserName:   domain.UnknownName,
			Department: domain.UnknownName,
			DueDate:    *a.DueDate,
		}
		if u, ok := users[a.PersonnelID]; ok {
			if u.Name != "" {
				info.UserName = u.Name
			}
			if u.Department != "" {
				info.Department = u.Department
			}
		}
		out = append(out, info)
	}
	return out
}
