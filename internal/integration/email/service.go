// Package email provides email sending functionality.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
)

// digestSubjects maps a trigger to the subject line of its digest email.
var digestSubjects = map[string]string{
	string(entity.TriggerMorningDigest):   "Your morning money check-in",
	string(entity.TriggerWeeklySummary):   "Your week in money",
	string(entity.TriggerMonthlyDeepDive): "Your monthly money deep dive",
}

const defaultDigestSubject = "New insights about your money"

// Service handles email queueing operations.
type Service struct {
	queue      adapter.EmailQueueRepository
	appBaseURL string
	now        func() time.Time
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		appBaseURL: appBaseURL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// QueueInsightDigestEmail queues a digest of the user's latest insights.
// At most one digest per user, day and trigger is queued; repeats are ignored.
func (s *Service) QueueInsightDigestEmail(ctx context.Context, input adapter.QueueInsightDigestInput) error {
	if len(input.Items) == 0 {
		return nil
	}

	subject, ok := digestSubjects[input.Trigger]
	if !ok {
		subject = defaultDigestSubject
	}

	items := make([]any, len(input.Items))
	for i, item := range input.Items {
		items[i] = map[string]any{
			"title":    item.Title,
			"message":  item.Message,
			"priority": item.Priority,
		}
	}

	templateData := map[string]any{
		"user_name": input.UserName,
		"trigger":   input.Trigger,
		"app_url":   s.appBaseURL + "/insights",
		"items":     items,
	}

	now := s.now()
	job := entity.NewEmailJob(
		input.UserID,
		entity.TemplateInsightDigest,
		input.UserEmail,
		input.UserName,
		subject,
		templateData,
		now,
	)
	job.DedupKey = DigestDedupKey(input.UserID.String(), input.Trigger, now)

	if err := s.queue.Create(ctx, job); err != nil {
		if errors.Is(err, domainerror.ErrEmailAlreadyQueued) {
			slog.Debug("Insight digest already queued", "user_id", input.UserID, "dedup_key", job.DedupKey)
			return nil
		}
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue insight digest email",
			err,
		)
	}

	return nil
}

// DigestDedupKey returns the key that limits digests to one per user, day and trigger.
func DigestDedupKey(userID, trigger string, at time.Time) string {
	return fmt.Sprintf("digest:%s:%s:%s", userID, at.Format("2006-01-02"), trigger)
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
