// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService defines the interface for queueing emails.
type EmailService interface {
	// QueueInsightDigestEmail queues a digest of the user's latest insights.
	QueueInsightDigestEmail(ctx context.Context, input QueueInsightDigestInput) error
}

// DigestItem is one insight line in a digest email.
type DigestItem struct {
	Title    string
	Message  string
	Priority string
}

// QueueInsightDigestInput represents the input for queueing an insight digest email.
type QueueInsightDigestInput struct {
	UserID    uuid.UUID
	UserEmail string
	UserName  string
	Trigger   string
	Items     []DigestItem
}
