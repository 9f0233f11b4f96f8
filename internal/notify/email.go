package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/events"
)

// Mailer delivers one HTML email.
type Mailer interface {
	Send(to, subject, html string) error
}

// ResendMailer sends email through the Resend API.
type ResendMailer struct {
	Client *resend.Client
	From   string
}

// NewResendMailer returns a mailer, or nil when apiKey is empty.
func NewResendMailer(apiKey, from string) *ResendMailer {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	return &ResendMailer{Client: resend.NewClient(apiKey), From: from}
}

// Send implements Mailer.
func (m *ResendMailer) Send(to, subject, body string) error {
	if m == nil || m.Client == nil {
		return errors.New("notify: mailer not configured")
	}
	_, err := m.Client.Emails.Send(&resend.SendEmailRequest{
		From:    m.From,
		To:      []string{to},
		Subject: subject,
		Html:    body,
		Tags:    []resend.Tag{{Name: "category", Value: "support"}},
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// SupportEmailNotifier mails staff when customers open tickets or post messages.
type SupportEmailNotifier struct {
	Mail Mailer
	To   string
}

// Notify implements events.Notifier.
func (n SupportEmailNotifier) Notify(_ context.Context, event dbgen.DomainEvent) error {
	if n.Mail == nil || n.To == "" {
		return nil
	}
	if event.Topic != events.TopicSupportTicketOpen && event.Topic != events.TopicSupportMessage {
		return nil
	}
	var payload events.SupportPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("email notify: decode payload: %w", err)
	}
	// staff replies are not echoed back to staff
	if payload.Sender != "" && payload.Sender != "customer" {
		return nil
	}
	return n.Mail.Send(n.To, subjectFor(event.Topic, payload), bodyFor(event.Topic, payload, event.OccurredAt.Time))
}

func subjectFor(topic string, p events.SupportPayload) string {
	ref := orderRef(p.TicketID)
	switch topic {
	case events.TopicSupportTicketOpen:
		return fmt.Sprintf("[%s] New support ticket #%s: %s", strings.ToUpper(p.Priority), ref, p.Subject)
	default:
		return fmt.Sprintf("New message on ticket #%s: %s", ref, p.Subject)
	}
}

func bodyFor(topic string, p events.SupportPayload, occurred time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Event <b>%s</b> at %s.</p>", html.EscapeString(topic), occurred.Format(time.RFC3339))
	fmt.Fprintf(&b, "<p>Ticket: %s<br>Category: %s<br>Priority: %s<br>Status: %s</p>",
		html.EscapeString(p.TicketID), html.EscapeString(p.Category), html.EscapeString(p.Priority), html.EscapeString(p.Status))
	if p.OrderID != "" {
		fmt.Fprintf(&b, "<p>Order: %s</p>", html.EscapeString(p.OrderID))
	}
	if p.Body != "" {
		fmt.Fprintf(&b, "<blockquote>%s</blockquote>", strings.ReplaceAll(html.EscapeString(p.Body), "\n", "<br>"))
	}
	return b.String()
}
