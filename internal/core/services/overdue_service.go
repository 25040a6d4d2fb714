package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
	"keytrack/internal/pkg/metrics"
)

// OverdueService flips issued keys to Overdue once their event assignment is past due
type OverdueService struct {
	repos       *repositories.Repositories
	notifier    *NotificationService
	lock        *WorkflowLock
	now         Clock
	sweepOnRead bool
}

// NewOverdueService creates a new overdue service.
// With sweepOnRead the sweep also runs before key listings, stats and reports.
func NewOverdueService(
	repos *repositories.Repositories,
	notifier *NotificationService,
	lock *WorkflowLock,
	now Clock,
	sweepOnRead bool,
) *OverdueService {
	return &OverdueService{
		repos:       repos,
		notifier:    notifier,
		lock:        lock,
		now:         now,
		sweepOnRead: sweepOnRead,
	}
}

// Sweep marks overdue keys and returns how many changed.
// Keys already Overdue, Available or Lost are left alone, so repeated sweeps are no-ops.
func (s *OverdueService) Sweep(ctx context.Context) (int, error) {
	return s.sweep(ctx, metrics.TriggerSchedule)
}

// SweepOnRead runs the sweep if read-triggered sweeps are enabled
func (s *OverdueService) SweepOnRead(ctx context.Context) error {
	if !s.sweepOnRead {
		return nil
	}
	_, err := s.sweep(ctx, metrics.TriggerRead)
	return err
}

func (s *OverdueService) sweep(ctx context.Context, trigger string) (int, error) {
	start := time.Now()
	defer func() {
		metrics.OverdueSweepDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())
	}()

	var overdue []string
	err := s.lock.Do(func() error {
		assignments, err := s.repos.Assignments.All(ctx)
		if err != nil {
			return fmt.Errorf("load assignments: %w", err)
		}

		now := s.now()
		for _, a := range assignments {
			if !a.IsOverdueAt(now) {
				continue
			}
			key, err := s.markOverdue(ctx, a.KeyID)
			if err != nil {
				return err
			}
			if key != nil {
				overdue = append(overdue, key.KeyNumber)
			}
		}
		return nil
	})

	// notifications go out after the lock is released; e-mail can be slow
	for _, keyNumber := range overdue {
		s.notifier.Notify(ctx, EventKeyOverdue, fmt.Sprintf("Key \"%s\" is now overdue.", keyNumber))
	}
	if err != nil {
		return len(overdue), err
	}

	if len(overdue) > 0 {
		log.Printf("⏰ Marked %d key(s) overdue", len(overdue))
	}
	return len(overdue), nil
}

// markOverdue flips an Issued key to Overdue and returns it, or nil when nothing changed
func (s *OverdueService) markOverdue(ctx context.Context, keyID string) (*domain.Key, error) {
	exists, err := s.repos.Keys.Exists(ctx, keyID)
	if err != nil || !exists {
		return nil, err
	}

	key, err := s.repos.Keys.Get(ctx, keyID)
	if err != nil {
		return nil, err
	}
	if key.Status != domain.KeyStatusIssued {
		return nil, nil
	}

	updated, err := s.repos.Keys.Patch(ctx, keyID, func(k *domain.Key) {
		k.Status = domain.KeyStatusOverdue
	})
	if err != nil {
		return nil, err
	}

	metrics.KeyTransitions.WithLabelValues("overdue").Inc()
	return updated, nil
}
