package insight

import (
	"time"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// RuleOutput describes a registered rule.
type RuleOutput struct {
	ID              string
	Name            string
	Category        entity.InsightCategory
	Triggers        []entity.Trigger
	DefaultPriority entity.InsightPriority
	EstimatedTime   time.Duration
}

// ListRulesUseCase exposes the engine's registry.
type ListRulesUseCase struct {
	engine *Engine
}

// NewListRulesUseCase creates a new ListRulesUseCase instance.
func NewListRulesUseCase(engine *Engine) *ListRulesUseCase {
	return &ListRulesUseCase{engine: engine}
}

// Execute returns the registered rules, optionally restricted to one trigger.
func (uc *ListRulesUseCase) Execute(trigger entity.Trigger) []RuleOutput {
	rules := uc.engine.Rules()
	if trigger != "" {
		rules = uc.engine.RulesForTrigger(trigger)
	}

	output := make([]RuleOutput, 0, len(rules))
	for _, r := range rules {
		output = append(output, RuleOutput{
			ID:              r.ID(),
			Name:            r.Name(),
			Category:        r.Category(),
			Triggers:        r.Triggers(),
			DefaultPriority: r.DefaultPriority(),
			EstimatedTime:   r.EstimatedExecutionTime(),
		})
	}
	return output
}
