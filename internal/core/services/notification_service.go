package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"sort"
	"time"

	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/core/domain"
	"keytrack/internal/pkg/metrics"
)

// Event identifies what a notification is about
type Event string

const (
	EventKeyIssued        Event = "key_issued"
	EventKeyReturned      Event = "key_returned"
	EventKeyOverdue       Event = "key_overdue"
	EventKeyLost          Event = "key_lost"
	EventRequestSubmitted Event = "request_submitted"
	EventRequestApproved  Event = "request_approved"
	EventRequestRejected  Event = "request_rejected"
)

// RecentNotificationLimit is how many entries the feed shows
const RecentNotificationLimit = 10

// mailTimeout bounds a single e-mail delivery
const mailTimeout = 10 * time.Second

// NotificationService records the activity feed and e-mails the admin
// about the events enabled in the profile's notification preferences.
type NotificationService struct {
	notifications *repositories.NotificationRepository
	profile       *ProfileService
	mailer        Mailer
	now           Clock
}

// NewNotificationService creates a new notification service. mailer may be nil.
func NewNotificationService(
	repos *repositories.Repositories,
	profile *ProfileService,
	mailer Mailer,
	now Clock,
) *NotificationService {
	return &NotificationService{
		notifications: repos.Notifications,
		profile:       profile,
		mailer:        mailer,
		now:           now,
	}
}

// IsMailEnabled checks if e-mail delivery is configured
func (s *NotificationService) IsMailEnabled() bool {
	return s.mailer != nil
}

// Create stores an unread notification
func (s *NotificationService) Create(ctx context.Context, message string) (*domain.Notification, error) {
	return s.notifications.Create(ctx, &domain.Notification{
		Message:   message,
		Timestamp: s.now(),
		Read:      false,
	})
}

// Notify records the event in the feed and e-mails it when enabled.
// Failures are logged and never returned: a workflow that already
// changed state is not undone because its notification failed.
func (s *NotificationService) Notify(ctx context.Context, event Event, message string) {
	if _, err := s.Create(ctx, message); err != nil {
		log.Printf("❌ Failed to record notification %s: %v", event, err)
	}
	s.sendEmail(ctx, event, message)
}

// Recent returns the newest notifications, at most RecentNotificationLimit
func (s *NotificationService) Recent(ctx context.Context) ([]*domain.Notification, error) {
	all, err := s.Log(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > RecentNotificationLimit {
		all = all[:RecentNotificationLimit]
	}
	return all, nil
}

// Log returns every notification, newest first
func (s *NotificationService) Log(ctx context.Context) ([]*domain.Notification, error) {
	all, err := s.notifications.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	return all, nil
}

// MarkRead flags the given notifications as read. Unknown ids are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, ids []string) (int, error) {
	marked := 0
	for _, id := range ids {
		exists, err := s.notifications.Exists(ctx, id)
		if err != nil {
			return marked, err
		}
		if !exists {
			continue
		}
		if _, err := s.notifications.Patch(ctx, id, func(n *domain.Notification) { n.Read = true }); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}

// ============================================================
// E-mail
// ============================================================

func (s *NotificationService) sendEmail(ctx context.Context, event Event, message string) {
	if s.mailer == nil {
		return
	}

	profile, err := s.profile.Current(ctx)
	if err != nil {
		log.Printf("❌ Failed to load notification preferences: %v", err)
		return
	}
	if !wantsEmail(profile.NotificationPrefs, event) || profile.Email == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
	defer cancel()

	subject := fmt.Sprintf("[%s] %s", appName(profile), message)
	body := fmt.Sprintf("<p>%s</p><p><small>%s</small></p>",
		html.EscapeString(message),
		s.now().Format(time.RFC1123),
	)

	if err := s.mailer.Send(ctx, profile.Email, subject, body); err != nil {
		metrics.EmailsSent.WithLabelValues("failed").Inc()
		log.Printf("❌ Failed to send %s e-mail to %s: %v", event, profile.Email, err)
		return
	}
	metrics.EmailsSent.WithLabelValues("sent").Inc()
}

func wantsEmail(prefs domain.NotificationPrefs, event Event) bool {
	switch event {
	case EventKeyOverdue:
		return prefs.OverdueKeys
	case EventKeyReturned:
		return prefs.KeyReturns
	case EventKeyIssued, EventRequestApproved:
		return prefs.KeyIssues
	default:
		return false
	}
}

func appName(p *domain.UserProfile) string {
	if p.AppName == "" {
		return "KeyTrack"
	}
	return p.AppName
}
