// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Streak is the precomputed count of consecutive on-budget days.
type Streak struct {
	UserID         uuid.UUID
	CurrentStreak  int
	BestStreak     int
	LastActiveDate *time.Time
	UpdatedAt      time.Time
}

// WasReset reports whether a previously running streak dropped to zero.
func (s *Streak) WasReset() bool {
	return s.CurrentStreak == 0 && s.BestStreak > 0
}
