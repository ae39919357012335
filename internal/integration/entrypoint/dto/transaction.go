// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// CreateTransactionRequest represents the request body for recording a transaction.
// Amount is the magnitude; the sign follows Type.
type CreateTransactionRequest struct {
	Date        string          `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type" binding:"required,oneof=expense income"`
	Category    string          `json:"category" binding:"required,min=1,max=100"`
	Note        string          `json:"note,omitempty" binding:"omitempty,max=1000"`
	IsRecurring bool            `json:"is_recurring,omitempty"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Date        string    `json:"date"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Note        string    `json:"note,omitempty"`
	IsRecurring bool      `json:"is_recurring"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordTransactionResponse represents the stored transaction and the insights it triggered.
type RecordTransactionResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Insights    []InsightResponse   `json:"insights"`
}

// ToTransactionResponse converts a domain Transaction entity to a TransactionResponse DTO.
func ToTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		UserID:      t.UserID.String(),
		Date:        t.Date.Format("2006-01-02"),
		Amount:      t.Amount.StringFixed(2),
		Type:        string(t.Type),
		Category:    t.Category,
		Note:        t.Note,
		IsRecurring: t.IsRecurring,
		CreatedAt:   t.CreatedAt,
	}
}
