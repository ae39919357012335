// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/integration/persistence/model"
)

// profileRepository implements the adapter.ProfileRepository interface.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance.
func NewProfileRepository(db *gorm.DB) adapter.ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

// FindByUserID retrieves the behavioral profile of a user.
func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	var profileModel model.ProfileModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profileModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrProfileNotFound
		}
		return nil, result.Error
	}
	return profileModel.ToEntity(), nil
}

// Upsert creates or replaces the profile of a user.
func (r *profileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	profileModel := model.ProfileFromEntity(profile)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(profileModel)
	return result.Error
}

// ListAll retrieves every profile, ordered by user id for stable iteration.
func (r *profileRepository) ListAll(ctx context.Context) ([]*entity.Profile, error) {
	var models []model.ProfileModel
	result := r.db.WithContext(ctx).Order("user_id ASC").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	profiles := make([]*entity.Profile, len(models))
	for i := range models {
		profiles[i] = models[i].ToEntity()
	}
	return profiles, nil
}
