package services

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"keytrack/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) populateForReset(t *testing.T) {
	t.Helper()
	require.NoError(t, f.seeder.Run(f.ctx))
	f.addUser(t, "u1", "Alice", "Physics")
	key := f.addKey(t, "M-101", "A")
	f.issue(t, key.ID, "u1", "2025-03-12")
	f.submit(t, "u1")
	_, err := f.rooms.Create(f.ctx, &RoomInput{RoomNumber: "A", Description: "Main hall"})
	require.NoError(t, err)

	_, err = f.profile.Get(f.ctx)
	require.NoError(t, err)
	logo := "data:image/png;base64,iVBORw0KGgo="
	_, err = f.profile.SetLogo(f.ctx, &logo)
	require.NoError(t, err)
}

func TestReset_KeepsOnlySeedUsers(t *testing.T) {
	f := newFixture(t)
	f.populateForReset(t)

	result, err := f.settings.Reset(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, ResetMessage, result.Message)
	assert.Equal(t, 1, result.Keys)
	assert.Equal(t, 1, result.Users)
	assert.Equal(t, 1, result.Assignments)
	assert.Equal(t, 1, result.Requests)
	assert.Equal(t, 2, result.Notifications)
	assert.Equal(t, 1, result.Rooms)

	users, err := f.repos.Users.All(f.ctx)
	require.NoError(t, err)
	var ids []string
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	sort.Strings(ids)
	assert.Equal(t, []string{"admin-seed", "iium-admin-seed"}, ids)

	for name, count := range map[string]func() (int, error){
		"keys":          func() (int, error) { return f.repos.Keys.Count(f.ctx) },
		"assignments":   func() (int, error) { return f.repos.Assignments.Count(f.ctx) },
		"requests":      func() (int, error) { return f.repos.Requests.Count(f.ctx) },
		"notifications": func() (int, error) { return f.repos.Notifications.Count(f.ctx) },
		"rooms":         func() (int, error) { return f.repos.Rooms.Count(f.ctx) },
	} {
		n, err := count()
		require.NoError(t, err)
		assert.Zero(t, n, name)
	}

	profile, err := f.profile.Get(f.ctx)
	require.NoError(t, err)
	assert.Nil(t, profile.AppLogoBase64)
	assert.Equal(t, "KeyTrack", profile.AppName)
}

func TestReset_UploadsRedactedSnapshot(t *testing.T) {
	f := newFixture(t)
	f.populateForReset(t)

	result, err := f.settings.Reset(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "backups/reset-20250310T090000Z.json", result.Snapshot)

	payload, ok := f.snapshots.saved[result.Snapshot]
	require.True(t, ok)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(payload, &snap))
	assert.Equal(t, "2025-03-10T09:00:00Z", snap.TakenAt)
	assert.Len(t, snap.Keys, 1)
	assert.Len(t, snap.Users, 3)
	for _, u := range snap.Users {
		assert.Empty(t, u.Password, u.ID)
	}
	require.NotNil(t, snap.Profile)
	assert.NotNil(t, snap.Profile.AppLogoBase64)

	// stored users keep their hashes
	admin, err := f.repos.Users.Get(f.ctx, "admin-seed")
	require.NoError(t, err)
	assert.NotEmpty(t, admin.Password)
}

func TestReset_SnapshotFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.populateForReset(t)
	f.snapshots.err = errors.New("bucket gone")

	_, err := f.settings.Reset(f.ctx)
	require.Error(t, err)

	n, err := f.repos.Keys.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = f.repos.Users.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestReset_WithoutSnapshotsOrProfile(t *testing.T) {
	f := newFixture(t)
	settings := NewSettingsService(f.repos, f.profile, nil, NewWorkflowLock(), func() time.Time { return fixedNow })
	f.addKey(t, "M-101", "A")

	result, err := settings.Reset(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Snapshot)
	assert.Equal(t, 1, result.Keys)

	exists, err := f.repos.Profile.Exists(f.ctx, domain.ProfileID)
	require.NoError(t, err)
	assert.False(t, exists)
}
