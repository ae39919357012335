// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// ProfileModel represents the profiles table in the database.
type ProfileModel struct {
	UserID                    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email                     string         `gorm:"type:varchar(255)"`
	Name                      string         `gorm:"type:varchar(255)"`
	Personality               string         `gorm:"type:varchar(20);not null"`
	StressLevel               string         `gorm:"type:varchar(10);not null"`
	EnabledCategories         pq.StringArray `gorm:"type:text[]"`
	DailyInsightCap           int            `gorm:"not null;default:5"`
	PreferredNotificationTime string         `gorm:"type:varchar(5);not null;default:'08:00'"`
	Timezone                  string         `gorm:"type:varchar(64);not null;default:'UTC'"`
	DigestEnabled             bool           `gorm:"not null;default:false"`
	CreatedAt                 time.Time      `gorm:"not null"`
	UpdatedAt                 time.Time      `gorm:"not null"`
}

// TableName returns the table name for the ProfileModel.
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToEntity converts a ProfileModel to a domain Profile entity.
func (m *ProfileModel) ToEntity() *entity.Profile {
	categories := make([]entity.InsightCategory, len(m.EnabledCategories))
	for i, c := range m.EnabledCategories {
		categories[i] = entity.InsightCategory(c)
	}

	return &entity.Profile{
		UserID:                    m.UserID,
		Email:                     m.Email,
		Name:                      m.Name,
		Personality:               entity.PersonalityType(m.Personality),
		StressLevel:               entity.StressLevel(m.StressLevel),
		EnabledCategories:         categories,
		DailyInsightCap:           m.DailyInsightCap,
		PreferredNotificationTime: m.PreferredNotificationTime,
		Timezone:                  m.Timezone,
		DigestEnabled:             m.DigestEnabled,
		CreatedAt:                 m.CreatedAt,
		UpdatedAt:                 m.UpdatedAt,
	}
}

// ProfileFromEntity creates a ProfileModel from a domain Profile entity.
func ProfileFromEntity(profile *entity.Profile) *ProfileModel {
	categories := make(pq.StringArray, len(profile.EnabledCategories))
	for i, c := range profile.EnabledCategories {
		categories[i] = string(c)
	}

	return &ProfileModel{
		UserID:                    profile.UserID,
		Email:                     profile.Email,
		Name:                      profile.Name,
		Personality:               string(profile.Personality),
		StressLevel:               string(profile.StressLevel),
		EnabledCategories:         categories,
		DailyInsightCap:           profile.DailyInsightCap,
		PreferredNotificationTime: profile.PreferredNotificationTime,
		Timezone:                  profile.Location().String(),
		DigestEnabled:             profile.DigestEnabled,
		CreatedAt:                 profile.CreatedAt,
		UpdatedAt:                 profile.UpdatedAt,
	}
}
