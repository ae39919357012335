// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/domain/rule"
)

const (
	// MaxNotesLength is the maximum allowed length for transaction notes.
	MaxNotesLength = 1000
	// MaxFutureDays is how far ahead a transaction may be dated.
	MaxFutureDays = 1
)

// InsightEvaluator runs the insight engine for a trigger.
type InsightEvaluator interface {
	EvaluateAndSave(ctx context.Context, userID uuid.UUID, trigger entity.Trigger, rc *rule.Context) (*entity.EvaluationResult, error)
}

// RecordTransactionInput represents the input for recording a transaction.
// Amount is the magnitude; the sign is derived from Type.
type RecordTransactionInput struct {
	UserID      uuid.UUID
	Date        time.Time
	Amount      decimal.Decimal
	Type        entity.TransactionType
	Category    string
	Note        string
	IsRecurring bool
}

// RecordTransactionOutput represents the stored transaction and the insights it triggered.
type RecordTransactionOutput struct {
	Transaction *entity.Transaction
	Insights    []*entity.Insight
}

// RecordTransactionUseCase stores a transaction and fires the post-transaction trigger.
type RecordTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	evaluator       InsightEvaluator
	now             func() time.Time
}

// NewRecordTransactionUseCase creates a new RecordTransactionUseCase instance.
func NewRecordTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	evaluator InsightEvaluator,
) *RecordTransactionUseCase {
	return &RecordTransactionUseCase{
		transactionRepo: transactionRepo,
		evaluator:       evaluator,
		now:             time.Now,
	}
}

// Execute validates and stores the transaction. Evaluation failures are
// logged and do not fail the request.
func (uc *RecordTransactionUseCase) Execute(ctx context.Context, input RecordTransactionInput) (*RecordTransactionOutput, error) {
	if err := uc.validate(input); err != nil {
		return nil, err
	}

	amount := input.Amount.Abs()
	if input.Type == entity.TransactionTypeExpense {
		amount = amount.Neg()
	}

	transaction := entity.NewTransaction(
		input.UserID,
		input.Date,
		amount,
		input.Type,
		strings.TrimSpace(input.Category),
		input.Note,
	)
	transaction.IsRecurring = input.IsRecurring

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	output := &RecordTransactionOutput{
		Transaction: transaction,
		Insights:    []*entity.Insight{},
	}

	if uc.evaluator == nil {
		return output, nil
	}

	result, err := uc.evaluator.EvaluateAndSave(ctx, input.UserID, entity.TriggerPostTransaction, nil)
	if err != nil {
		slog.Warn("Post-transaction evaluation failed",
			"user_id", input.UserID,
			"transaction_id", transaction.ID,
			"error", err,
		)
		return output, nil
	}
	output.Insights = result.Insights

	return output, nil
}

func (uc *RecordTransactionUseCase) validate(input RecordTransactionInput) error {
	if input.UserID == uuid.Nil || input.Date.IsZero() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionFields,
			"user id and date are required",
			nil,
		)
	}

	if input.Type != entity.TransactionTypeExpense && input.Type != entity.TransactionTypeIncome {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	if input.Amount.IsZero() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must not be zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	if strings.TrimSpace(input.Category) == "" {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeMissingCategory,
			"category is required",
			domainerror.ErrMissingTransactionCategory,
		)
	}

	if len(input.Note) > MaxNotesLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeNotesTooLong,
			fmt.Sprintf("notes must not exceed %d characters", MaxNotesLength),
			domainerror.ErrNotesTooLong,
		)
	}

	if input.Date.After(uc.now().AddDate(0, 0, MaxFutureDays)) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"date must not be in the future",
			domainerror.ErrInvalidTransactionDate,
		)
	}

	return nil
}
