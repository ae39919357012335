// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// PersonalityType is the user's money personality classification.
type PersonalityType string

const (
	PersonalitySaver    PersonalityType = "saver"
	PersonalitySpender  PersonalityType = "spender"
	PersonalitySharer   PersonalityType = "sharer"
	PersonalityInvestor PersonalityType = "investor"
	PersonalityGambler  PersonalityType = "gambler"
)

// IsValid reports whether the personality is one of the five known tones.
func (p PersonalityType) IsValid() bool {
	switch p {
	case PersonalitySaver, PersonalitySpender, PersonalitySharer, PersonalityInvestor, PersonalityGambler:
		return true
	default:
		return false
	}
}

// StressLevel is the user's self-reported financial stress.
type StressLevel string

const (
	StressLevelLow    StressLevel = "low"
	StressLevelMedium StressLevel = "medium"
	StressLevelHigh   StressLevel = "high"
)

// IsValid reports whether the stress level is known.
func (s StressLevel) IsValid() bool {
	return s == StressLevelLow || s == StressLevelMedium || s == StressLevelHigh
}

const (
	// DefaultDailyInsightCap is used when a profile has no cap configured.
	DefaultDailyInsightCap = 5
	// DefaultTimezone is used when a profile has no time zone configured.
	DefaultTimezone = "UTC"
)

// Profile holds the behavioral preferences used to select and phrase insights.
type Profile struct {
	UserID                    uuid.UUID
	Email                     string
	Name                      string
	Personality               PersonalityType
	StressLevel               StressLevel
	EnabledCategories         []InsightCategory
	DailyInsightCap           int
	PreferredNotificationTime string // HH:MM in Timezone
	Timezone                  string // IANA name, empty means UTC
	DigestEnabled             bool
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// NewProfile creates a profile with every category enabled.
func NewProfile(userID uuid.UUID, email, name string, personality PersonalityType, stress StressLevel) *Profile {
	now := time.Now().UTC()

	return &Profile{
		UserID:                    userID,
		Email:                     email,
		Name:                      name,
		Personality:               personality,
		StressLevel:               stress,
		EnabledCategories:         AllInsightCategories(),
		DailyInsightCap:           DefaultDailyInsightCap,
		PreferredNotificationTime: "08:00",
		Timezone:                  DefaultTimezone,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}
}

// IsCategoryEnabled reports whether the user wants insights of the given category.
func (p *Profile) IsCategoryEnabled(category InsightCategory) bool {
	for _, c := range p.EnabledCategories {
		if c == category {
			return true
		}
	}
	return false
}

// IsHighStress reports whether the user is under high financial stress.
func (p *Profile) IsHighStress() bool {
	return p.StressLevel == StressLevelHigh
}

// IsLowStress reports whether the user is under low financial stress.
func (p *Profile) IsLowStress() bool {
	return p.StressLevel == StressLevelLow
}

// Location returns the profile's time zone, falling back to UTC for an
// empty or unknown name.
func (p *Profile) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EffectiveDailyCap returns the configured cap, falling back to the default.
func (p *Profile) EffectiveDailyCap() int {
	if p.DailyInsightCap <= 0 {
		return DefaultDailyInsightCap
	}
	return p.DailyInsightCap
}
