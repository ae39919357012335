// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget holds the user's monthly plan and savings goal.
type Budget struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	MonthlyIncome  decimal.Decimal
	MonthlyBudget  decimal.Decimal
	SavingsGoal    decimal.Decimal
	CurrentSavings decimal.Decimal
	CashBalance    decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBudget creates a new Budget entity.
func NewBudget(userID uuid.UUID, monthlyIncome, monthlyBudget, savingsGoal decimal.Decimal) *Budget {
	now := time.Now().UTC()

	return &Budget{
		ID:            uuid.New(),
		UserID:        userID,
		MonthlyIncome: monthlyIncome,
		MonthlyBudget: monthlyBudget,
		SavingsGoal:   savingsGoal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// DailyBudget returns the nominal daily allowance for the month containing now.
func (b *Budget) DailyBudget(now time.Time) decimal.Decimal {
	return b.MonthlyBudget.Div(decimal.NewFromInt(int64(DaysInMonth(now))))
}

// RemainingForMonth returns the budget left after spent (a positive magnitude).
func (b *Budget) RemainingForMonth(spent decimal.Decimal) decimal.Decimal {
	return b.MonthlyBudget.Sub(spent.Abs())
}

// HasSavingsGoal reports whether a positive savings goal is configured.
func (b *Budget) HasSavingsGoal() bool {
	return b.SavingsGoal.IsPositive()
}
