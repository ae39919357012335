// Package model defines database models for persistence layer.
package model

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// InsightModel represents the insights table in the database.
// ExpiresAt is denormalized from GeneratedAt and ExpiresInSeconds for querying.
type InsightModel struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID     `gorm:"type:uuid;not null;index"`
	RuleID           string        `gorm:"type:varchar(100);not null"`
	Category         string        `gorm:"type:varchar(30);not null"`
	Title            string        `gorm:"type:varchar(255);not null"`
	Message          string        `gorm:"type:text;not null"`
	Icon             string        `gorm:"type:varchar(50)"`
	Priority         string        `gorm:"type:varchar(10);not null"`
	ActionLabel      string        `gorm:"type:varchar(100)"`
	ActionLink       string        `gorm:"type:varchar(255)"`
	Metadata         string        `gorm:"type:jsonb;not null;default:'{}'"`
	GeneratedAt      time.Time     `gorm:"not null;index"`
	ExpiresInSeconds sql.NullInt64 `gorm:"type:bigint"`
	ExpiresAt        sql.NullTime  `gorm:"index"`
	DismissedAt      sql.NullTime
}

// TableName returns the table name for the InsightModel.
func (InsightModel) TableName() string {
	return "insights"
}

// ToEntity converts an InsightModel to a domain Insight entity.
func (m *InsightModel) ToEntity() *entity.Insight {
	var metadata map[string]any
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			slog.Warn("Failed to unmarshal insight metadata", "error", err, "id", m.ID)
		}
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}

	var expiresIn *time.Duration
	if m.ExpiresInSeconds.Valid {
		d := time.Duration(m.ExpiresInSeconds.Int64) * time.Second
		expiresIn = &d
	}

	var dismissedAt *time.Time
	if m.DismissedAt.Valid {
		dismissedAt = &m.DismissedAt.Time
	}

	return &entity.Insight{
		ID:          m.ID,
		UserID:      m.UserID,
		RuleID:      m.RuleID,
		Category:    entity.InsightCategory(m.Category),
		Title:       m.Title,
		Message:     m.Message,
		Icon:        m.Icon,
		Priority:    entity.InsightPriority(m.Priority),
		ActionLabel: m.ActionLabel,
		ActionLink:  m.ActionLink,
		Metadata:    metadata,
		GeneratedAt: m.GeneratedAt,
		ExpiresIn:   expiresIn,
		DismissedAt: dismissedAt,
	}
}

// InsightFromEntity creates an InsightModel from a domain Insight entity.
func InsightFromEntity(insight *entity.Insight) *InsightModel {
	metadataJSON, err := json.Marshal(insight.Metadata)
	if err != nil || insight.Metadata == nil {
		if err != nil {
			slog.Error("Failed to marshal insight metadata", "error", err, "id", insight.ID)
		}
		metadataJSON = []byte("{}")
	}

	var expiresIn sql.NullInt64
	var expiresAt sql.NullTime
	if insight.ExpiresIn != nil {
		expiresIn = sql.NullInt64{Int64: int64(insight.ExpiresIn.Seconds()), Valid: true}
		expiresAt = sql.NullTime{Time: *insight.ExpiresAt(), Valid: true}
	}

	var dismissedAt sql.NullTime
	if insight.DismissedAt != nil {
		dismissedAt = sql.NullTime{Time: *insight.DismissedAt, Valid: true}
	}

	return &InsightModel{
		ID:               insight.ID,
		UserID:           insight.UserID,
		RuleID:           insight.RuleID,
		Category:         string(insight.Category),
		Title:            insight.Title,
		Message:          insight.Message,
		Icon:             insight.Icon,
		Priority:         string(insight.Priority),
		ActionLabel:      insight.ActionLabel,
		ActionLink:       insight.ActionLink,
		Metadata:         string(metadataJSON),
		GeneratedAt:      insight.GeneratedAt,
		ExpiresInSeconds: expiresIn,
		ExpiresAt:        expiresAt,
		DismissedAt:      dismissedAt,
	}
}
