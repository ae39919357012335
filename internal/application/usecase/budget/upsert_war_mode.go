package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
)

// UpsertWarModeInput represents the input for switching war mode.
type UpsertWarModeInput struct {
	UserID     uuid.UUID
	Active     bool
	Level      entity.WarModeLevel
	CashOnHand decimal.Decimal
}

// UpsertWarModeOutput represents the stored war mode status.
type UpsertWarModeOutput struct {
	Status *entity.WarModeStatus
}

// UpsertWarModeUseCase stores the war mode status and the cash on hand the
// war mode rule measures runway against.
type UpsertWarModeUseCase struct {
	warModeRepo adapter.WarModeRepository
	now         func() time.Time
}

// NewUpsertWarModeUseCase creates a new UpsertWarModeUseCase instance.
func NewUpsertWarModeUseCase(warModeRepo adapter.WarModeRepository) *UpsertWarModeUseCase {
	return &UpsertWarModeUseCase{warModeRepo: warModeRepo, now: time.Now}
}

// Execute performs the upsert. An empty level means green.
// ActivatedAt is kept while the mode stays active and cleared when it ends.
func (uc *UpsertWarModeUseCase) Execute(ctx context.Context, input UpsertWarModeInput) (*UpsertWarModeOutput, error) {
	if input.UserID == uuid.Nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeMissingBudgetFields,
			"user id is required",
			nil,
		)
	}

	level := input.Level
	if level == "" {
		level = entity.WarModeLevelGreen
	}
	if !level.IsValid() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidWarModeLevel,
			"level must be 'green', 'yellow' or 'red'",
			domainerror.ErrInvalidWarModeLevel,
		)
	}

	status, err := uc.warModeRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find war mode status: %w", err)
	}
	if status == nil {
		status = &entity.WarModeStatus{UserID: input.UserID}
	}

	now := uc.now().UTC()
	switch {
	case input.Active && !status.Active:
		status.ActivatedAt = &now
	case !input.Active:
		status.ActivatedAt = nil
	}
	status.Active = input.Active
	status.Level = level
	status.CashOnHand = input.CashOnHand
	status.UpdatedAt = now

	if err := uc.warModeRepo.Upsert(ctx, status); err != nil {
		return nil, fmt.Errorf("failed to save war mode status: %w", err)
	}

	return &UpsertWarModeOutput{Status: status}, nil
}
