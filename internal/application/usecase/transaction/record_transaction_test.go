package transaction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/domain/rule"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

type fakeTransactionRepo struct {
	created   []*entity.Transaction
	createErr error
}

func (r *fakeTransactionRepo) Create(_ context.Context, transaction *entity.Transaction) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, transaction)
	return nil
}

func (r *fakeTransactionRepo) FindByUserSince(context.Context, uuid.UUID, time.Time) ([]*entity.Transaction, error) {
	return r.created, nil
}

type fakeEvaluator struct {
	calls    int
	trigger  entity.Trigger
	insights []*entity.Insight
	err      error
}

func (e *fakeEvaluator) EvaluateAndSave(_ context.Context, userID uuid.UUID, trigger entity.Trigger, _ *rule.Context) (*entity.EvaluationResult, error) {
	e.calls++
	e.trigger = trigger
	if e.err != nil {
		return nil, e.err
	}
	result := entity.NewEmptyEvaluationResult(userID, trigger, testNow)
	result.Insights = e.insights
	return result, nil
}

func newTestUseCase(repo *fakeTransactionRepo, evaluator InsightEvaluator) *RecordTransactionUseCase {
	uc := NewRecordTransactionUseCase(repo, evaluator)
	uc.now = func() time.Time { return testNow }
	return uc
}

func validInput() RecordTransactionInput {
	return RecordTransactionInput{
		UserID:   uuid.New(),
		Date:     testNow.Add(-2 * time.Hour),
		Amount:   decimal.RequireFromString("42.50"),
		Type:     entity.TransactionTypeExpense,
		Category: "  groceries ",
		Note:     "weekly shop",
	}
}

func TestRecordTransactionUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("expense is stored negative and triggers evaluation", func(t *testing.T) {
		repo := &fakeTransactionRepo{}
		insight := entity.NewInsight("anomaly", entity.InsightCategoryAnomaly, entity.InsightPriorityHigh, "Big spend", "", "", testNow)
		evaluator := &fakeEvaluator{insights: []*entity.Insight{insight}}

		output, err := newTestUseCase(repo, evaluator).Execute(ctx, validInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Transaction.Amount.Equal(decimal.RequireFromString("-42.50")) {
			t.Errorf("expected -42.50, got %s", output.Transaction.Amount)
		}
		if output.Transaction.Category != "groceries" {
			t.Errorf("expected a trimmed category, got %q", output.Transaction.Category)
		}
		if evaluator.calls != 1 || evaluator.trigger != entity.TriggerPostTransaction {
			t.Errorf("expected one post_transaction evaluation, got %d %s", evaluator.calls, evaluator.trigger)
		}
		if len(output.Insights) != 1 {
			t.Errorf("expected the triggered insight, got %d", len(output.Insights))
		}
	})

	t.Run("income is stored positive", func(t *testing.T) {
		repo := &fakeTransactionRepo{}
		input := validInput()
		input.Type = entity.TransactionTypeIncome
		input.Amount = decimal.NewFromInt(-2000)

		output, err := newTestUseCase(repo, nil).Execute(ctx, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Transaction.Amount.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("expected 2000, got %s", output.Transaction.Amount)
		}
		if len(output.Insights) != 0 {
			t.Error("expected no insights without an evaluator")
		}
	})

	t.Run("evaluation failure does not fail the request", func(t *testing.T) {
		repo := &fakeTransactionRepo{}
		evaluator := &fakeEvaluator{err: errors.New("engine down")}

		output, err := newTestUseCase(repo, evaluator).Execute(ctx, validInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.created) != 1 || len(output.Insights) != 0 {
			t.Errorf("expected the transaction stored without insights")
		}
	})

	t.Run("store failure", func(t *testing.T) {
		repo := &fakeTransactionRepo{createErr: errors.New("db down")}
		evaluator := &fakeEvaluator{}

		if _, err := newTestUseCase(repo, evaluator).Execute(ctx, validInput()); err == nil {
			t.Fatal("expected an error")
		}
		if evaluator.calls != 0 {
			t.Error("expected no evaluation")
		}
	})
}

func TestRecordTransactionUseCase_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RecordTransactionInput)
		code   domainerror.TransactionErrorCode
	}{
		{"missing user", func(in *RecordTransactionInput) { in.UserID = uuid.Nil }, domainerror.ErrCodeMissingTransactionFields},
		{"missing date", func(in *RecordTransactionInput) { in.Date = time.Time{} }, domainerror.ErrCodeMissingTransactionFields},
		{"unknown type", func(in *RecordTransactionInput) { in.Type = "transfer" }, domainerror.ErrCodeInvalidTransactionType},
		{"zero amount", func(in *RecordTransactionInput) { in.Amount = decimal.Zero }, domainerror.ErrCodeInvalidTransactionAmount},
		{"blank category", func(in *RecordTransactionInput) { in.Category = "   " }, domainerror.ErrCodeMissingCategory},
		{"long note", func(in *RecordTransactionInput) { in.Note = strings.Repeat("x", MaxNotesLength+1) }, domainerror.ErrCodeNotesTooLong},
		{"future date", func(in *RecordTransactionInput) { in.Date = testNow.AddDate(0, 0, 3) }, domainerror.ErrCodeInvalidTransactionDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeTransactionRepo{}
			input := validInput()
			tt.mutate(&input)

			_, err := newTestUseCase(repo, nil).Execute(context.Background(), input)
			var txnErr *domainerror.TransactionError
			if !errors.As(err, &txnErr) {
				t.Fatalf("expected a TransactionError, got %v", err)
			}
			if txnErr.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, txnErr.Code)
			}
			if len(repo.created) != 0 {
				t.Error("expected nothing stored")
			}
		})
	}
}
