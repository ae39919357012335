// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// BudgetRepository defines the interface for budget persistence operations.
type BudgetRepository interface {
	// FindByUserID retrieves the user's budget, or nil when none is configured.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Budget, error)

	// Upsert creates or replaces the user's budget.
	Upsert(ctx context.Context, budget *entity.Budget) error
}

// StreakRepository defines the interface for streak counter persistence operations.
type StreakRepository interface {
	// FindByUserID retrieves the user's streak, or nil when none is tracked.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Streak, error)

	// Upsert creates or replaces the user's streak.
	Upsert(ctx context.Context, streak *entity.Streak) error
}

// WarModeRepository defines the interface for war mode status persistence operations.
type WarModeRepository interface {
	// FindByUserID retrieves the user's war mode status, or nil when never set.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.WarModeStatus, error)

	// Upsert creates or replaces the user's war mode status.
	Upsert(ctx context.Context, status *entity.WarModeStatus) error
}
