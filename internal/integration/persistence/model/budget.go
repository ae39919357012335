// Package model defines database models for persistence layer.
package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// BudgetModel represents the budgets table in the database.
type BudgetModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	MonthlyIncome  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	MonthlyBudget  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	SavingsGoal    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CurrentSavings decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CashBalance    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	return &entity.Budget{
		ID:             m.ID,
		UserID:         m.UserID,
		MonthlyIncome:  m.MonthlyIncome,
		MonthlyBudget:  m.MonthlyBudget,
		SavingsGoal:    m.SavingsGoal,
		CurrentSavings: m.CurrentSavings,
		CashBalance:    m.CashBalance,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// BudgetFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetFromEntity(b *entity.Budget) *BudgetModel {
	return &BudgetModel{
		ID:             b.ID,
		UserID:         b.UserID,
		MonthlyIncome:  b.MonthlyIncome,
		MonthlyBudget:  b.MonthlyBudget,
		SavingsGoal:    b.SavingsGoal,
		CurrentSavings: b.CurrentSavings,
		CashBalance:    b.CashBalance,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// StreakModel represents the streaks table in the database.
type StreakModel struct {
	UserID         uuid.UUID    `gorm:"type:uuid;primaryKey"`
	CurrentStreak  int          `gorm:"not null;default:0"`
	BestStreak     int          `gorm:"not null;default:0"`
	LastActiveDate sql.NullTime `gorm:"type:date"`
	UpdatedAt      time.Time    `gorm:"not null"`
}

// TableName returns the table name for the StreakModel.
func (StreakModel) TableName() string {
	return "streaks"
}

// ToEntity converts a StreakModel to a domain Streak entity.
func (m *StreakModel) ToEntity() *entity.Streak {
	var lastActive *time.Time
	if m.LastActiveDate.Valid {
		lastActive = &m.LastActiveDate.Time
	}

	return &entity.Streak{
		UserID:         m.UserID,
		CurrentStreak:  m.CurrentStreak,
		BestStreak:     m.BestStreak,
		LastActiveDate: lastActive,
		UpdatedAt:      m.UpdatedAt,
	}
}

// StreakFromEntity creates a StreakModel from a domain Streak entity.
func StreakFromEntity(s *entity.Streak) *StreakModel {
	var lastActive sql.NullTime
	if s.LastActiveDate != nil {
		lastActive = sql.NullTime{Time: *s.LastActiveDate, Valid: true}
	}

	return &StreakModel{
		UserID:         s.UserID,
		CurrentStreak:  s.CurrentStreak,
		BestStreak:     s.BestStreak,
		LastActiveDate: lastActive,
		UpdatedAt:      s.UpdatedAt,
	}
}

// WarModeModel represents the war_mode_status table in the database.
type WarModeModel struct {
	UserID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Active      bool            `gorm:"not null;default:false"`
	Level       string          `gorm:"type:varchar(10);not null;default:'green'"`
	CashOnHand  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	UpdatedAt   time.Time       `gorm:"not null"`
	ActivatedAt sql.NullTime
}

// TableName returns the table name for the WarModeModel.
func (WarModeModel) TableName() string {
	return "war_mode_status"
}

// ToEntity converts a WarModeModel to a domain WarModeStatus entity.
func (m *WarModeModel) ToEntity() *entity.WarModeStatus {
	var activatedAt *time.Time
	if m.ActivatedAt.Valid {
		activatedAt = &m.ActivatedAt.Time
	}

	return &entity.WarModeStatus{
		UserID:      m.UserID,
		Active:      m.Active,
		Level:       entity.WarModeLevel(m.Level),
		CashOnHand:  m.CashOnHand,
		ActivatedAt: activatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// WarModeFromEntity creates a WarModeModel from a domain WarModeStatus entity.
func WarModeFromEntity(s *entity.WarModeStatus) *WarModeModel {
	var activatedAt sql.NullTime
	if s.ActivatedAt != nil {
		activatedAt = sql.NullTime{Time: *s.ActivatedAt, Valid: true}
	}

	return &WarModeModel{
		UserID:      s.UserID,
		Active:      s.Active,
		Level:       string(s.Level),
		CashOnHand:  s.CashOnHand,
		ActivatedAt: activatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
