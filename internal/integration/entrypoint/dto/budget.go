// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// UpsertBudgetRequest represents the request body for setting the monthly plan.
type UpsertBudgetRequest struct {
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	MonthlyBudget  decimal.Decimal `json:"monthly_budget"`
	SavingsGoal    decimal.Decimal `json:"savings_goal"`
	CurrentSavings decimal.Decimal `json:"current_savings"`
	CashBalance    decimal.Decimal `json:"cash_balance"`
}

// BudgetResponse represents the monthly plan in API responses.
type BudgetResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	MonthlyIncome  string    `json:"monthly_income"`
	MonthlyBudget  string    `json:"monthly_budget"`
	SavingsGoal    string    `json:"savings_goal"`
	CurrentSavings string    `json:"current_savings"`
	CashBalance    string    `json:"cash_balance"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToBudgetResponse converts a domain Budget entity to a BudgetResponse DTO.
func ToBudgetResponse(b *entity.Budget) BudgetResponse {
	return BudgetResponse{
		ID:             b.ID.String(),
		UserID:         b.UserID.String(),
		MonthlyIncome:  b.MonthlyIncome.StringFixed(2),
		MonthlyBudget:  b.MonthlyBudget.StringFixed(2),
		SavingsGoal:    b.SavingsGoal.StringFixed(2),
		CurrentSavings: b.CurrentSavings.StringFixed(2),
		CashBalance:    b.CashBalance.StringFixed(2),
		UpdatedAt:      b.UpdatedAt,
	}
}

// UpsertStreakRequest represents the request body for reporting the streak.
type UpsertStreakRequest struct {
	CurrentStreak int `json:"current_streak"`
	BestStreak    int `json:"best_streak"`
}

// StreakResponse represents the streak in API responses.
type StreakResponse struct {
	UserID         string     `json:"user_id"`
	CurrentStreak  int        `json:"current_streak"`
	BestStreak     int        `json:"best_streak"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToStreakResponse converts a domain Streak entity to a StreakResponse DTO.
func ToStreakResponse(s *entity.Streak) StreakResponse {
	return StreakResponse{
		UserID:         s.UserID.String(),
		CurrentStreak:  s.CurrentStreak,
		BestStreak:     s.BestStreak,
		LastActiveDate: s.LastActiveDate,
		UpdatedAt:      s.UpdatedAt,
	}
}

// UpsertWarModeRequest represents the request body for switching war mode.
type UpsertWarModeRequest struct {
	Active     bool            `json:"active"`
	Level      string          `json:"level"`
	CashOnHand decimal.Decimal `json:"cash_on_hand"`
}

// WarModeResponse represents the war mode status in API responses.
type WarModeResponse struct {
	UserID      string     `json:"user_id"`
	Active      bool       `json:"active"`
	Level       string     `json:"level"`
	CashOnHand  string     `json:"cash_on_hand"`
	ActivatedAt *time.Time `json:"activated_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToWarModeResponse converts a domain WarModeStatus entity to a WarModeResponse DTO.
func ToWarModeResponse(s *entity.WarModeStatus) WarModeResponse {
	return WarModeResponse{
		UserID:      s.UserID.String(),
		Active:      s.Active,
		Level:       string(s.Level),
		CashOnHand:  s.CashOnHand.StringFixed(2),
		ActivatedAt: s.ActivatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
