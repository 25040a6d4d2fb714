package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"keytrack/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifications_RecentAndLog(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		_, err := f.notifications.Create(f.ctx, fmt.Sprintf("event %d", i))
		require.NoError(t, err)
		f.advance(time.Minute)
	}

	recent, err := f.notifications.Recent(f.ctx)
	require.NoError(t, err)
	require.Len(t, recent, RecentNotificationLimit)
	assert.Equal(t, "event 11", recent[0].Message)
	assert.Equal(t, "event 2", recent[9].Message)
	assert.False(t, recent[0].Read)

	log, err := f.notifications.Log(f.ctx)
	require.NoError(t, err)
	assert.Len(t, log, 12)
	assert.Equal(t, "event 0", log[11].Message)
}

func TestNotifications_MarkRead(t *testing.T) {
	f := newFixture(t)
	a, err := f.notifications.Create(f.ctx, "a")
	require.NoError(t, err)
	b, err := f.notifications.Create(f.ctx, "b")
	require.NoError(t, err)

	marked, err := f.notifications.MarkRead(f.ctx, []string{a.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	got, err := f.repos.Notifications.Get(f.ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)
	got, err = f.repos.Notifications.Get(f.ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.Read)

	exists, err := f.repos.Notifications.Exists(f.ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNotify_EmailFollowsPreferences(t *testing.T) {
	f := newFixture(t)

	// defaults: only overdue keys are mailed
	f.notifications.Notify(f.ctx, EventKeyOverdue, `Key "M-101" is now overdue.`)
	f.notifications.Notify(f.ctx, EventKeyReturned, `Key "M-101" was returned.`)
	f.notifications.Notify(f.ctx, EventKeyIssued, `Key "M-101" issued to Alice.`)
	require.Equal(t, 1, f.mailer.count())
	sent := f.mailer.sent[0]
	assert.Equal(t, "admin@university.edu", sent.to)
	assert.Equal(t, `[KeyTrack] Key "M-101" is now overdue.`, sent.subject)
	assert.Contains(t, sent.html, "Key &#34;M-101&#34; is now overdue.")

	_, err := f.profile.Get(f.ctx)
	require.NoError(t, err)
	email := "keys@university.edu"
	_, err = f.profile.Update(f.ctx, &UpdateProfileInput{
		Email:             &email,
		NotificationPrefs: &domain.NotificationPrefs{KeyReturns: true, KeyIssues: true},
	})
	require.NoError(t, err)

	f.notifications.Notify(f.ctx, EventKeyOverdue, "overdue")
	f.notifications.Notify(f.ctx, EventKeyReturned, "returned")
	f.notifications.Notify(f.ctx, EventRequestApproved, "approved")
	f.notifications.Notify(f.ctx, EventRequestSubmitted, "submitted")
	require.Equal(t, 3, f.mailer.count())
	assert.Equal(t, "keys@university.edu", f.mailer.sent[1].to)

	assert.Len(t, f.messages(t), 7)
}

func TestNotify_MailFailureIsNotReturned(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("smtp down")

	f.notifications.Notify(f.ctx, EventKeyOverdue, "overdue")
	assert.Equal(t, []string{"overdue"}, f.messages(t))
}

func TestNotify_StoreFailureIsNotReturned(t *testing.T) {
	f := newFixture(t)
	key := f.addKey(t, "M-101", "A")

	f.store.failPutsTo("notification:")
	f.issue(t, key.ID, "u1", "2025-03-12")
	f.store.failPutsTo("")

	got, err := f.keys.Get(f.ctx, key.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KeyStatusIssued, got.Status)
	assert.Empty(t, f.messages(t))
}

func TestNotify_WithoutMailer(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(f.repos, f.profile, nil, func() time.Time { return fixedNow })
	assert.False(t, svc.IsMailEnabled())
	assert.True(t, f.notifications.IsMailEnabled())

	svc.Notify(f.ctx, EventKeyOverdue, "overdue")
	assert.Equal(t, []string{"overdue"}, f.messages(t))
}
