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

// EmailQueueModel represents the email_queue table in the database.
type EmailQueueModel struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID    `gorm:"type:uuid;not null;index"`
	TemplateType   string       `gorm:"type:varchar(50);not null"`
	RecipientEmail string       `gorm:"type:varchar(255);not null"`
	RecipientName  string       `gorm:"type:varchar(255)"`
	Subject        string       `gorm:"type:varchar(500);not null"`
	TemplateData   string       `gorm:"type:jsonb;not null;default:'{}'"`
	DedupKey       *string      `gorm:"type:varchar(255);uniqueIndex"`
	Status         string       `gorm:"type:varchar(20);not null;default:'pending'"`
	Attempts       int          `gorm:"not null;default:0"`
	MaxAttempts    int          `gorm:"not null;default:3"`
	LastError      string       `gorm:"type:text"`
	ResendID       string       `gorm:"type:varchar(100)"`
	CreatedAt      time.Time    `gorm:"not null"`
	ScheduledAt    time.Time    `gorm:"not null"`
	ProcessedAt    sql.NullTime
}

// TableName returns the table name for the EmailQueueModel.
func (EmailQueueModel) TableName() string {
	return "email_queue"
}

// ToEntity converts an EmailQueueModel to a domain EmailJob entity.
func (m *EmailQueueModel) ToEntity() *entity.EmailJob {
	var templateData map[string]any
	if m.TemplateData != "" {
		if err := json.Unmarshal([]byte(m.TemplateData), &templateData); err != nil {
			slog.Warn("Failed to unmarshal email template data", "error", err, "id", m.ID)
		}
	}
	if templateData == nil {
		templateData = make(map[string]any)
	}

	var processedAt *time.Time
	if m.ProcessedAt.Valid {
		processedAt = &m.ProcessedAt.Time
	}

	dedupKey := ""
	if m.DedupKey != nil {
		dedupKey = *m.DedupKey
	}

	return &entity.EmailJob{
		ID:             m.ID,
		UserID:         m.UserID,
		TemplateType:   entity.EmailTemplateType(m.TemplateType),
		RecipientEmail: m.RecipientEmail,
		RecipientName:  m.RecipientName,
		Subject:        m.Subject,
		TemplateData:   templateData,
		DedupKey:       dedupKey,
		Status:         entity.EmailStatus(m.Status),
		Attempts:       m.Attempts,
		MaxAttempts:    m.MaxAttempts,
		LastError:      m.LastError,
		ResendID:       m.ResendID,
		CreatedAt:      m.CreatedAt,
		ScheduledAt:    m.ScheduledAt,
		ProcessedAt:    processedAt,
	}
}

// EmailQueueModelFromEntity creates an EmailQueueModel from a domain EmailJob entity.
func EmailQueueModelFromEntity(job *entity.EmailJob) *EmailQueueModel {
	templateDataJSON, err := json.Marshal(job.TemplateData)
	if err != nil {
		slog.Error("Failed to marshal email template data", "error", err, "job_id", job.ID)
		templateDataJSON = []byte("{}")
	}

	var processedAt sql.NullTime
	if job.ProcessedAt != nil {
		processedAt = sql.NullTime{Time: *job.ProcessedAt, Valid: true}
	}

	// Jobs without a dedup key store NULL so the unique index ignores them.
	var dedupKey *string
	if job.DedupKey != "" {
		key := job.DedupKey
		dedupKey = &key
	}

	return &EmailQueueModel{
		ID:             job.ID,
		UserID:         job.UserID,
		TemplateType:   string(job.TemplateType),
		RecipientEmail: job.RecipientEmail,
		RecipientName:  job.RecipientName,
		Subject:        job.Subject,
		TemplateData:   string(templateDataJSON),
		DedupKey:       dedupKey,
		Status:         string(job.Status),
		Attempts:       job.Attempts,
		MaxAttempts:    job.MaxAttempts,
		LastError:      job.LastError,
		ResendID:       job.ResendID,
		CreatedAt:      job.CreatedAt,
		ScheduledAt:    job.ScheduledAt,
		ProcessedAt:    processedAt,
	}
}
