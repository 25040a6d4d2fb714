package services

import (
	"context"
	"time"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// Mailer delivers notification e-mails
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SnapshotStore keeps a copy of the data before it is wiped
type SnapshotStore interface {
	Save(ctx context.Context, name string, payload []byte) error
}
