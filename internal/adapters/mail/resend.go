// Package mail sends notification e-mails through Resend.
package mail

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v3"
)

// ResendMailer implements services.Mailer
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer creates a mailer sending from the given address.
// An empty baseURL keeps the Resend default endpoint.
func NewResendMailer(apiKey, from, baseURL string) (*ResendMailer, error) {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = u
	}

	// a bare address gets the application name
	if !strings.Contains(from, "<") {
		from = fmt.Sprintf("KeyTrack <%s>", from)
	}

	return &ResendMailer{client: client, from: from}, nil
}

// Send delivers one HTML e-mail
func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Html:    html,
		Subject: subject,
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
