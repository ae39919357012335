// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// EmailQueueRepository defines the interface for email queue persistence operations.
type EmailQueueRepository interface {
	// Create adds a new email job to the queue.
	// Returns domainerror.ErrEmailAlreadyQueued when the job's dedup key is taken.
	Create(ctx context.Context, job *entity.EmailJob) error

	// ExistsByDedupKey reports whether a job with the given dedup key was queued.
	ExistsByDedupKey(ctx context.Context, dedupKey string) (bool, error)

	// GetPendingJobs retrieves jobs due at now, ordered by scheduled_at.
	GetPendingJobs(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error)

	// Update saves changes to an email job.
	Update(ctx context.Context, job *entity.EmailJob) error

	// GetByID retrieves a specific job by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EmailJob, error)

	// GetByUserID retrieves the jobs queued for a user, newest first.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.EmailJob, error)

	// DeleteOldSentJobs removes sent jobs processed before the cutoff.
	DeleteOldSentJobs(ctx context.Context, before time.Time) (int64, error)
}
