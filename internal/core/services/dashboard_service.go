package services

import (
	"context"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
)

// DashboardService computes the dashboard key counters
type DashboardService struct {
	keys    *repositories.KeyRepository
	overdue *OverdueService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repos *repositories.Repositories, overdue *OverdueService) *DashboardService {
	return &DashboardService{
		keys:    repos.Keys,
		overdue: overdue,
	}
}

// Stats counts keys by state. Overdue keys count as issued.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	if err := s.overdue.SweepOnRead(ctx); err != nil {
		return nil, err
	}

	keys, err := s.keys.All(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{TotalKeys: len(keys)}
	for _, k := range keys {
		switch k.Status {
		case domain.KeyStatusIssued:
			stats.KeysIssued++
		case domain.KeyStatusOverdue:
			stats.KeysIssued++
			stats.OverdueKeys++
		}
	}
	stats.KeysAvailable = stats.TotalKeys - stats.KeysIssued
	return stats, nil
}
