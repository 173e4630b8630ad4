package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// =============================================================================
// GMAIL TRANSPORT
// =============================================================================

// GmailNotifier sends HTML mail through the Gmail API on behalf of the
// authenticated sender.
type GmailNotifier struct {
	service *gmail.Service

	// From is the display name and address placed in the From header.
	From string
}

// NewGmailNotifier builds a notifier from an OAuth2 token source.
func NewGmailNotifier(ctx context.Context, ts oauth2.TokenSource, from string) (*GmailNotifier, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &GmailNotifier{service: svc, From: from}, nil
}

// Send builds an RFC 822 message with an HTML body and submits it via the
// authenticated user's mailbox.
func (g *GmailNotifier) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("%w: no recipients", ErrTransport)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", g.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(recipients, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	raw := base64.URLEncoding.EncodeToString([]byte(msg.String()))
	_, err := g.service.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}
