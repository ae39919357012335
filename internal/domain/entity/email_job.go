package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus represents the status of an email job in the queue.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
)

// EmailTemplateType represents the type of email template.
type EmailTemplateType string

const (
	TemplateInsightDigest EmailTemplateType = "insight_digest"
)

// DefaultEmailMaxAttempts is the number of delivery attempts before a job fails permanently.
const DefaultEmailMaxAttempts = 3

// emailRetryDelays are the waits before each retry, indexed by attempts made.
var emailRetryDelays = []time.Duration{0, time.Minute, 5 * time.Minute}

// EmailJob is a queued email waiting for delivery.
// DedupKey, when set, is unique across the queue so the same digest is never queued twice.
type EmailJob struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	TemplateType   EmailTemplateType
	RecipientEmail string
	RecipientName  string
	Subject        string
	TemplateData   map[string]any
	DedupKey       string
	Status         EmailStatus
	Attempts       int
	MaxAttempts    int
	LastError      string
	ResendID       string
	CreatedAt      time.Time
	ScheduledAt    time.Time
	ProcessedAt    *time.Time
}

// NewEmailJob creates a pending job scheduled for immediate delivery.
func NewEmailJob(
	userID uuid.UUID,
	templateType EmailTemplateType,
	recipientEmail, recipientName, subject string,
	data map[string]any,
	now time.Time,
) *EmailJob {
	return &EmailJob{
		ID:             uuid.New(),
		UserID:         userID,
		TemplateType:   templateType,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		Subject:        subject,
		TemplateData:   data,
		Status:         EmailStatusPending,
		MaxAttempts:    DefaultEmailMaxAttempts,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// MarkProcessing marks the email job as currently being processed.
func (e *EmailJob) MarkProcessing() {
	e.Status = EmailStatusProcessing
}

// MarkSent marks the email job as delivered.
func (e *EmailJob) MarkSent(resendID string, now time.Time) {
	e.Status = EmailStatusSent
	e.ResendID = resendID
	e.ProcessedAt = &now
}

// MarkFailed records a failed attempt. The job is rescheduled unless the
// failure is permanent or no attempts remain.
func (e *EmailJob) MarkFailed(err error, permanent bool, now time.Time) {
	e.Attempts++
	e.LastError = err.Error()

	if permanent || !e.CanRetry() {
		e.Status = EmailStatusFailed
		e.ProcessedAt = &now
		return
	}

	e.Status = EmailStatusPending
	e.ScheduledAt = now.Add(e.retryDelay())
}

func (e *EmailJob) retryDelay() time.Duration {
	if e.Attempts < len(emailRetryDelays) {
		return emailRetryDelays[e.Attempts]
	}
	return emailRetryDelays[len(emailRetryDelays)-1]
}

// CanRetry returns true if the email job has attempts left.
func (e *EmailJob) CanRetry() bool {
	return e.Attempts < e.MaxAttempts
}

// IsReadyToProcess reports whether the job is pending and due at now.
func (e *EmailJob) IsReadyToProcess(now time.Time) bool {
	return e.Status == EmailStatusPending && !now.Before(e.ScheduledAt)
}
