// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_user_date"`
	Date        time.Time       `gorm:"not null;index:idx_transactions_user_date"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type        string          `gorm:"type:varchar(10);not null"`
	Category    string          `gorm:"type:varchar(100);not null"`
	Note        string          `gorm:"type:text"`
	IsRecurring bool            `gorm:"default:false"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:          m.ID,
		UserID:      m.UserID,
		Date:        m.Date,
		Amount:      m.Amount,
		Type:        entity.TransactionType(m.Type),
		Category:    m.Category,
		Note:        m.Note,
		IsRecurring: m.IsRecurring,
		CreatedAt:   m.CreatedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(t *entity.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:          t.ID,
		UserID:      t.UserID,
		Date:        t.Date,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Category:    t.Category,
		Note:        t.Note,
		IsRecurring: t.IsRecurring,
		CreatedAt:   t.CreatedAt,
	}
}
