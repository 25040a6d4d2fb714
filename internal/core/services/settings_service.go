package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
)

// ResetMessage is returned after a successful reset
const ResetMessage = "All data cleared successfully."

// SettingsService handles system-wide maintenance
type SettingsService struct {
	repos     *repositories.Repositories
	profile   *ProfileService
	snapshots SnapshotStore
	lock      *WorkflowLock
	now       Clock
}

// NewSettingsService creates a new settings service. snapshots may be nil.
func NewSettingsService(
	repos *repositories.Repositories,
	profile *ProfileService,
	snapshots SnapshotStore,
	lock *WorkflowLock,
	now Clock,
) *SettingsService {
	return &SettingsService{
		repos:     repos,
		profile:   profile,
		snapshots: snapshots,
		lock:      lock,
		now:       now,
	}
}

// Snapshot is the JSON document uploaded before a reset
type Snapshot struct {
	TakenAt       string                  `json:"takenAt"`
	Keys          []*domain.Key           `json:"keys"`
	Users         []*domain.User          `json:"users"`
	Assignments   []*domain.KeyAssignment `json:"assignments"`
	Requests      []*domain.KeyRequest    `json:"requests"`
	Notifications []*domain.Notification  `json:"notifications"`
	Rooms         []*domain.Room          `json:"rooms"`
	Profile       *domain.UserProfile     `json:"profile,omitempty"`
}

// ResetResult reports what a reset removed
type ResetResult struct {
	Message       string `json:"message"`
	Snapshot      string `json:"snapshot,omitempty"`
	Keys          int    `json:"keys"`
	Users         int    `json:"users"`
	Assignments   int    `json:"assignments"`
	Requests      int    `json:"requests"`
	Notifications int    `json:"notifications"`
	Rooms         int    `json:"rooms"`
}

// Reset wipes keys, non-seed users, assignments, requests, notifications
// and rooms, and clears the profile logo. It is not atomic: a failure
// leaves whatever was already deleted deleted.
func (s *SettingsService) Reset(ctx context.Context) (*ResetResult, error) {
	var result *ResetResult
	err := s.lock.Do(func() error {
		snap, err := s.collect(ctx)
		if err != nil {
			return err
		}

		result = &ResetResult{Message: ResetMessage}
		if s.snapshots != nil {
			name, err := s.upload(ctx, snap)
			if err != nil {
				return err
			}
			result.Snapshot = name
		}

		if result.Keys, err = s.repos.Keys.DeleteMany(ctx, recordIDs(snap.Keys)); err != nil {
			return fmt.Errorf("delete keys: %w", err)
		}

		var userIDs []string
		for _, u := range snap.Users {
			if !domain.IsSeedUser(u.ID) {
				userIDs = append(userIDs, u.ID)
			}
		}
		if result.Users, err = s.repos.Users.DeleteMany(ctx, userIDs); err != nil {
			return fmt.Errorf("delete users: %w", err)
		}
		if result.Assignments, err = s.repos.Assignments.DeleteMany(ctx, recordIDs(snap.Assignments)); err != nil {
			return fmt.Errorf("delete assignments: %w", err)
		}
		if result.Notifications, err = s.repos.Notifications.DeleteMany(ctx, recordIDs(snap.Notifications)); err != nil {
			return fmt.Errorf("delete notifications: %w", err)
		}
		if result.Requests, err = s.repos.Requests.DeleteMany(ctx, recordIDs(snap.Requests)); err != nil {
			return fmt.Errorf("delete requests: %w", err)
		}
		if result.Rooms, err = s.repos.Rooms.DeleteMany(ctx, recordIDs(snap.Rooms)); err != nil {
			return fmt.Errorf("delete rooms: %w", err)
		}

		return s.profile.ClearLogo(ctx)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🧹 System reset: %d keys, %d users, %d assignments, %d requests, %d notifications, %d rooms removed",
		result.Keys, result.Users, result.Assignments, result.Requests, result.Notifications, result.Rooms)
	return result, nil
}

func (s *SettingsService) collect(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{TakenAt: s.now().UTC().Format("2006-01-02T15:04:05Z")}

	var err error
	if snap.Keys, err = s.repos.Keys.All(ctx); err != nil {
		return nil, err
	}
	if snap.Users, err = s.repos.Users.All(ctx); err != nil {
		return nil, err
	}
	if snap.Assignments, err = s.repos.Assignments.All(ctx); err != nil {
		return nil, err
	}
	if snap.Requests, err = s.repos.Requests.All(ctx); err != nil {
		return nil, err
	}
	if snap.Notifications, err = s.repos.Notifications.All(ctx); err != nil {
		return nil, err
	}
	if snap.Rooms, err = s.repos.Rooms.All(ctx); err != nil {
		return nil, err
	}
	if snap.Profile, err = s.profile.Current(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

// upload stores the snapshot before anything is deleted. The reset is
// aborted when the upload fails.
func (s *SettingsService) upload(ctx context.Context, snap *Snapshot) (string, error) {
	// password hashes stay out of the backup
	users := make([]*domain.User, len(snap.Users))
	for i, u := range snap.Users {
		c := *u
		c.Password = ""
		users[i] = &c
	}
	redacted := *snap
	redacted.Users = users

	payload, err := json.Marshal(redacted)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("backups/reset-%s.json", s.now().UTC().Format("20060102T150405Z"))
	if err := s.snapshots.Save(ctx, name, payload); err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	log.Printf("💾 Snapshot saved: %s", name)
	return name, nil
}

// recordIDs collects the ids of a listing
func recordIDs[T any, PT interface {
	*T
	repositories.Record
}](list []*T) []string {
	ids := make([]string, len(list))
	for i, r := range list {
		ids[i] = PT(r).GetID()
	}
	return ids
}
