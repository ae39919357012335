package insight

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
)

// EvaluateInsightsInput represents the input for an on-demand evaluation.
type EvaluateInsightsInput struct {
	UserID  uuid.UUID
	Trigger entity.Trigger
}

// EvaluateInsightsOutput represents the output of an on-demand evaluation.
type EvaluateInsightsOutput struct {
	Result *entity.EvaluationResult
}

// EvaluateInsightsUseCase runs the engine for a trigger and stores the results.
type EvaluateInsightsUseCase struct {
	engine *Engine
}

// NewEvaluateInsightsUseCase creates a new EvaluateInsightsUseCase instance.
func NewEvaluateInsightsUseCase(engine *Engine) *EvaluateInsightsUseCase {
	return &EvaluateInsightsUseCase{engine: engine}
}

// Execute performs the evaluation. An empty trigger means manual.
func (uc *EvaluateInsightsUseCase) Execute(ctx context.Context, input EvaluateInsightsInput) (*EvaluateInsightsOutput, error) {
	if input.UserID == uuid.Nil {
		return nil, domainerror.NewInsightError(
			domainerror.ErrCodeMissingFields,
			"user id is required",
			nil,
		)
	}

	trigger := input.Trigger
	if trigger == "" {
		trigger = entity.TriggerManual
	}
	if !trigger.IsValid() {
		return nil, domainerror.NewInsightError(
			domainerror.ErrCodeInvalidTrigger,
			"trigger must be one of app_open, post_transaction, morning_digest, weekly_summary, monthly_deep_dive, pre_decision, manual",
			domainerror.ErrInvalidTrigger,
		)
	}

	result, err := uc.engine.EvaluateAndSave(ctx, input.UserID, trigger, nil)
	if err != nil {
		return nil, err
	}

	return &EvaluateInsightsOutput{Result: result}, nil
}
