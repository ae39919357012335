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
	"github.com/finance-tracker/insights/internal/integration/persistence/model"
)

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{db: db}
}

// FindByUserID retrieves the user's budget, or nil when none is configured.
func (r *budgetRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// Upsert creates or replaces the user's budget.
func (r *budgetRepository) Upsert(ctx context.Context, budget *entity.Budget) error {
	budgetModel := model.BudgetFromEntity(budget)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"monthly_income", "monthly_budget", "savings_goal",
				"current_savings", "cash_balance", "updated_at",
			}),
		}).
		Create(budgetModel)
	return result.Error
}

// streakRepository implements the adapter.StreakRepository interface.
type streakRepository struct {
	db *gorm.DB
}

// NewStreakRepository creates a new streak repository instance.
func NewStreakRepository(db *gorm.DB) adapter.StreakRepository {
	return &streakRepository{db: db}
}

// FindByUserID retrieves the user's streak, or nil when none is tracked.
func (r *streakRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Streak, error) {
	var streakModel model.StreakModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&streakModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return streakModel.ToEntity(), nil
}

// Upsert creates or replaces the user's streak.
func (r *streakRepository) Upsert(ctx context.Context, streak *entity.Streak) error {
	return r.db.WithContext(ctx).Save(model.StreakFromEntity(streak)).Error
}

// warModeRepository implements the adapter.WarModeRepository interface.
type warModeRepository struct {
	db *gorm.DB
}

// NewWarModeRepository creates a new war mode repository instance.
func NewWarModeRepository(db *gorm.DB) adapter.WarModeRepository {
	return &warModeRepository{db: db}
}

// FindByUserID retrieves the user's war mode status, or nil when never set.
func (r *warModeRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.WarModeStatus, error) {
	var statusModel model.WarModeModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&statusModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return statusModel.ToEntity(), nil
}

// Upsert creates or replaces the user's war mode status.
func (r *warModeRepository) Upsert(ctx context.Context, status *entity.WarModeStatus) error {
	return r.db.WithContext(ctx).Save(model.WarModeFromEntity(status)).Error
}
