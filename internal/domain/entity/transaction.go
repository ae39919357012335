// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// Transaction represents a financial transaction fed to the insight rules.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Date        time.Time
	Amount      decimal.Decimal // Negative for expenses, positive for income
	Type        TransactionType
	Category    string
	Note        string
	IsRecurring bool
	CreatedAt   time.Time
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	userID uuid.UUID,
	date time.Time,
	amount decimal.Decimal,
	transactionType TransactionType,
	category string,
	note string,
) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		Amount:    amount,
		Type:      transactionType,
		Category:  category,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// IsIncome reports whether the transaction is income.
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// Magnitude returns the absolute value of the amount.
func (t *Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}
