// Package budget contains budget-related use cases.
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

// UpsertBudgetInput represents the input for setting the user's budget.
type UpsertBudgetInput struct {
	UserID         uuid.UUID
	MonthlyIncome  decimal.Decimal
	MonthlyBudget  decimal.Decimal
	SavingsGoal    decimal.Decimal
	CurrentSavings decimal.Decimal
	CashBalance    decimal.Decimal
}

// UpsertBudgetOutput represents the stored budget.
type UpsertBudgetOutput struct {
	Budget *entity.Budget
}

// UpsertBudgetUseCase validates and stores the user's monthly plan.
type UpsertBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewUpsertBudgetUseCase creates a new UpsertBudgetUseCase instance.
func NewUpsertBudgetUseCase(budgetRepo adapter.BudgetRepository) *UpsertBudgetUseCase {
	return &UpsertBudgetUseCase{budgetRepo: budgetRepo}
}

// Execute performs the upsert. The cash balance may be negative (overdrawn).
func (uc *UpsertBudgetUseCase) Execute(ctx context.Context, input UpsertBudgetInput) (*UpsertBudgetOutput, error) {
	if input.UserID == uuid.Nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeMissingBudgetFields,
			"user id is required",
			nil,
		)
	}

	for _, amount := range []decimal.Decimal{input.MonthlyIncome, input.MonthlyBudget, input.SavingsGoal, input.CurrentSavings} {
		if amount.IsNegative() {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidBudgetAmount,
				"income, budget, savings goal and current savings must not be negative",
				domainerror.ErrInvalidBudgetAmount,
			)
		}
	}

	budget, err := uc.budgetRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}
	if budget == nil {
		budget = entity.NewBudget(input.UserID, input.MonthlyIncome, input.MonthlyBudget, input.SavingsGoal)
	} else {
		budget.MonthlyIncome = input.MonthlyIncome
		budget.MonthlyBudget = input.MonthlyBudget
		budget.SavingsGoal = input.SavingsGoal
		budget.UpdatedAt = time.Now().UTC()
	}
	budget.CurrentSavings = input.CurrentSavings
	budget.CashBalance = input.CashBalance

	if err := uc.budgetRepo.Upsert(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	return &UpsertBudgetOutput{Budget: budget}, nil
}
