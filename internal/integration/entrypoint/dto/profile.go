// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// UpsertProfileRequest represents the request body for creating or updating a profile.
type UpsertProfileRequest struct {
	Name                      string   `json:"name,omitempty" binding:"omitempty,max=255"`
	Personality               string   `json:"personality" binding:"required"`
	StressLevel               string   `json:"stress_level" binding:"required"`
	EnabledCategories         []string `json:"enabled_categories,omitempty"`
	DailyInsightCap           *int     `json:"daily_insight_cap,omitempty"`
	PreferredNotificationTime *string  `json:"preferred_notification_time,omitempty"`
	Timezone                  *string  `json:"timezone,omitempty"`
	DigestEnabled             *bool    `json:"digest_enabled,omitempty"`
}

// ProfileResponse represents a behavioral profile in API responses.
type ProfileResponse struct {
	UserID                    string    `json:"user_id"`
	Email                     string    `json:"email,omitempty"`
	Name                      string    `json:"name,omitempty"`
	Personality               string    `json:"personality"`
	StressLevel               string    `json:"stress_level"`
	EnabledCategories         []string  `json:"enabled_categories"`
	DailyInsightCap           int       `json:"daily_insight_cap"`
	PreferredNotificationTime string    `json:"preferred_notification_time"`
	Timezone                  string    `json:"timezone"`
	DigestEnabled             bool      `json:"digest_enabled"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// ToProfileResponse converts a domain Profile entity to a ProfileResponse DTO.
func ToProfileResponse(p *entity.Profile) ProfileResponse {
	categories := make([]string, len(p.EnabledCategories))
	for i, c := range p.EnabledCategories {
		categories[i] = string(c)
	}

	return ProfileResponse{
		UserID:                    p.UserID.String(),
		Email:                     p.Email,
		Name:                      p.Name,
		Personality:               string(p.Personality),
		StressLevel:               string(p.StressLevel),
		EnabledCategories:         categories,
		DailyInsightCap:           p.EffectiveDailyCap(),
		PreferredNotificationTime: p.PreferredNotificationTime,
		Timezone:                  p.Location().String(),
		DigestEnabled:             p.DigestEnabled,
		CreatedAt:                 p.CreatedAt,
		UpdatedAt:                 p.UpdatedAt,
	}
}
