package rule

import (
	"testing"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

func TestSpendingVelocityRule_Evaluate(t *testing.T) {
	rule := NewSpendingVelocityRule(defaultConfig())

	// A 100 daily budget expects 700 a week.
	tests := []struct {
		name         string
		txns         []*entity.Transaction
		wantNil      bool
		wantPriority entity.InsightPriority
	}{
		{name: "one and a half times the pace", txns: []*entity.Transaction{spend(2, "1050", "shopping")}, wantPriority: entity.InsightPriorityCritical},
		{name: "above the warning pace", txns: []*entity.Transaction{spend(2, "980", "shopping")}, wantPriority: entity.InsightPriorityHigh},
		{name: "on pace", txns: []*entity.Transaction{spend(2, "700", "shopping")}, wantNil: true},
		{name: "well under pace", txns: []*entity.Transaction{spend(2, "210", "shopping")}, wantPriority: entity.InsightPriorityLow},
		{name: "no expenses at all", txns: nil, wantNil: true},
		{name: "spend outside the window", txns: []*entity.Transaction{spend(7, "5000", "shopping")}, wantPriority: entity.InsightPriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insight, err := rule.Evaluate(contextWith(tt.txns, budgetOf("4000", "3100")))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if insight != nil {
					t.Fatalf("expected no insight, got %q", insight.Title)
				}
				return
			}
			if insight == nil {
				t.Fatal("expected an insight")
			}
			if insight.Priority != tt.wantPriority {
				t.Errorf("expected priority %s, got %s", tt.wantPriority, insight.Priority)
			}
			if insight.Metadata["weekly_expected"] != "700.00" {
				t.Errorf("expected weekly pace 700.00, got %v", insight.Metadata["weekly_expected"])
			}
		})
	}
}

func TestSpendingVelocityRule_NoBudget(t *testing.T) {
	rule := NewSpendingVelocityRule(defaultConfig())

	insight, err := rule.Evaluate(contextWith([]*entity.Transaction{spend(1, "900", "food")}, nil))
	if err != nil || insight != nil {
		t.Errorf("expected nil, nil; got %v, %v", insight, err)
	}
}
