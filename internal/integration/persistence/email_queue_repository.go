// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/integration/persistence/model"
)

// emailQueueRepository implements the adapter.EmailQueueRepository interface.
type emailQueueRepository struct {
	db *gorm.DB
}

// NewEmailQueueRepository creates a new email queue repository instance.
func NewEmailQueueRepository(db *gorm.DB) adapter.EmailQueueRepository {
	return &emailQueueRepository{
		db: db,
	}
}

// Create adds a new email job to the queue.
func (r *emailQueueRepository) Create(ctx context.Context, job *entity.EmailJob) error {
	emailModel := model.EmailQueueModelFromEntity(job)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(emailModel)
	if result.Error != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to create email job",
			result.Error,
		)
	}
	if result.RowsAffected == 0 {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailAlreadyQueued,
			"email job already queued",
			domainerror.ErrEmailAlreadyQueued,
		)
	}
	return nil
}

// ExistsByDedupKey reports whether a job with the dedup key was queued.
func (r *emailQueueRepository) ExistsByDedupKey(ctx context.Context, dedupKey string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.EmailQueueModel{}).
		Where("dedup_key = ?", dedupKey).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// GetPendingJobs retrieves jobs ready to be processed.
func (r *emailQueueRepository) GetPendingJobs(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error) {
	var models []model.EmailQueueModel

	result := r.db.WithContext(ctx).
		Where("status = ?", entity.EmailStatusPending).
		Where("scheduled_at <= ?", now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	jobs := make([]*entity.EmailJob, len(models))
	for i := range models {
		jobs[i] = models[i].ToEntity()
	}

	return jobs, nil
}

// Update saves changes to an email job.
func (r *emailQueueRepository) Update(ctx context.Context, job *entity.EmailJob) error {
	emailModel := model.EmailQueueModelFromEntity(job)
	result := r.db.WithContext(ctx).Save(emailModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// GetByID retrieves a specific job by its ID.
func (r *emailQueueRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.EmailJob, error) {
	var emailModel model.EmailQueueModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&emailModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrEmailJobNotFound
		}
		return nil, result.Error
	}
	return emailModel.ToEntity(), nil
}

// GetByUserID retrieves the jobs queued for a user.
func (r *emailQueueRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.EmailJob, error) {
	var models []model.EmailQueueModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	jobs := make([]*entity.EmailJob, len(models))
	for i := range models {
		jobs[i] = models[i].ToEntity()
	}

	return jobs, nil
}

// DeleteOldSentJobs removes sent jobs processed before the cutoff.
func (r *emailQueueRepository) DeleteOldSentJobs(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ?", entity.EmailStatusSent).
		Where("processed_at < ?", before).
		Delete(&model.EmailQueueModel{})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
