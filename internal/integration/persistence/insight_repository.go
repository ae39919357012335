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

// insightRepository implements the adapter.InsightRepository interface.
type insightRepository struct {
	db *gorm.DB
}

// NewInsightRepository creates a new insight repository instance.
func NewInsightRepository(db *gorm.DB) adapter.InsightRepository {
	return &insightRepository{
		db: db,
	}
}

// SaveInsights stores a batch of insights in a single transaction.
func (r *insightRepository) SaveInsights(ctx context.Context, insights []*entity.Insight) error {
	if len(insights) == 0 {
		return nil
	}

	models := make([]*model.InsightModel, len(insights))
	for i, insight := range insights {
		models[i] = model.InsightFromEntity(insight)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&models).Error
	})
}

// FindByID retrieves an insight by its ID.
func (r *insightRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Insight, error) {
	var insightModel model.InsightModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&insightModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrInsightNotFound
		}
		return nil, result.Error
	}
	return insightModel.ToEntity(), nil
}

// FindActiveByUserID retrieves the user's insights that are neither dismissed nor expired.
func (r *insightRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.Insight, error) {
	var models []model.InsightModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("dismissed_at IS NULL").
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("generated_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	insights := make([]*entity.Insight, len(models))
	for i := range models {
		insights[i] = models[i].ToEntity()
	}
	return insights, nil
}

// MarkDismissed records that the user dismissed the insight.
func (r *insightRepository) MarkDismissed(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.InsightModel{}).
		Where("id = ?", id).
		Update("dismissed_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrInsightNotFound
	}
	return nil
}

// DeleteExpired removes insights whose expiry is at or before now.
func (r *insightRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&model.InsightModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
