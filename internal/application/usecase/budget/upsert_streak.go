package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
)

// UpsertStreakInput represents the input for reporting the on-budget streak.
type UpsertStreakInput struct {
	UserID        uuid.UUID
	CurrentStreak int
	BestStreak    int
}

// UpsertStreakOutput represents the stored streak.
type UpsertStreakOutput struct {
	Streak *entity.Streak
}

// UpsertStreakUseCase stores the streak counters read by the streak rule.
type UpsertStreakUseCase struct {
	streakRepo adapter.StreakRepository
	now        func() time.Time
}

// NewUpsertStreakUseCase creates a new UpsertStreakUseCase instance.
func NewUpsertStreakUseCase(streakRepo adapter.StreakRepository) *UpsertStreakUseCase {
	return &UpsertStreakUseCase{streakRepo: streakRepo, now: time.Now}
}

// Execute performs the upsert. The best streak never goes down and is at
// least the current streak.
func (uc *UpsertStreakUseCase) Execute(ctx context.Context, input UpsertStreakInput) (*UpsertStreakOutput, error) {
	if input.UserID == uuid.Nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeMissingBudgetFields,
			"user id is required",
			nil,
		)
	}
	if input.CurrentStreak < 0 || input.BestStreak < 0 {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidStreak,
			"current and best streak must not be negative",
			domainerror.ErrInvalidStreak,
		)
	}

	streak, err := uc.streakRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find streak: %w", err)
	}
	if streak == nil {
		streak = &entity.Streak{UserID: input.UserID}
	}

	now := uc.now().UTC()
	streak.CurrentStreak = input.CurrentStreak
	streak.BestStreak = max(streak.BestStreak, input.BestStreak, input.CurrentStreak)
	if input.CurrentStreak > 0 {
		streak.LastActiveDate = &now
	}
	streak.UpdatedAt = now

	if err := uc.streakRepo.Upsert(ctx, streak); err != nil {
		return nil, fmt.Errorf("failed to save streak: %w", err)
	}

	return &UpsertStreakOutput{Streak: streak}, nil
}
