// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarModeLevel is the severity of the user's survival-budgeting mode.
type WarModeLevel string

const (
	WarModeLevelGreen  WarModeLevel = "green"
	WarModeLevelYellow WarModeLevel = "yellow"
	WarModeLevelRed    WarModeLevel = "red"
)

// IsValid checks if the war mode level is valid.
func (l WarModeLevel) IsValid() bool {
	switch l {
	case WarModeLevelGreen, WarModeLevelYellow, WarModeLevelRed:
		return true
	}
	return false
}

// WarModeStatus describes whether the user switched into survival budgeting.
type WarModeStatus struct {
	UserID      uuid.UUID
	Active      bool
	Level       WarModeLevel
	CashOnHand  decimal.Decimal
	ActivatedAt *time.Time
	UpdatedAt   time.Time
}
