package rule

import (
	"testing"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// With 50 a day of spend and 1000 per payday the balance bottoms out on
// March 30, fifteen days ahead, at start minus 750.
func cashFlowContext(cash string) *Context {
	budget := budgetOf("3000", "3100")
	budget.CashBalance = dec(cash)
	return contextWith([]*entity.Transaction{spend(1, "1500", "rent")}, budget)
}

func TestCashFlowForecastRule_Project(t *testing.T) {
	rule := NewCashFlowForecastRule(defaultConfig())

	forecast, ok := rule.Project(cashFlowContext("500"))
	if !ok {
		t.Fatal("expected a forecast")
	}
	if !forecast.LowestBalance.Equal(dec("-250")) {
		t.Errorf("expected lowest balance -250, got %s", forecast.LowestBalance)
	}
	if forecast.LowestDayOffset != 15 {
		t.Errorf("expected lowest point in 15 days, got %d", forecast.LowestDayOffset)
	}
	if !forecast.EndingBalance.Equal(dec("650")) {
		t.Errorf("expected ending balance 650, got %s", forecast.EndingBalance)
	}
}

func TestCashFlowForecastRule_Evaluate(t *testing.T) {
	rule := NewCashFlowForecastRule(defaultConfig())

	tests := []struct {
		name         string
		cash         string
		wantNil      bool
		wantLevel    string
		wantPriority entity.InsightPriority
	}{
		{name: "negative low point", cash: "500", wantLevel: "critical", wantPriority: entity.InsightPriorityCritical},
		{name: "under three days of budget", cash: "1000", wantLevel: "warning", wantPriority: entity.InsightPriorityHigh},
		{name: "under seven days of budget", cash: "1400", wantLevel: "caution", wantPriority: entity.InsightPriorityMedium},
		{name: "comfortable", cash: "2000", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insight, err := rule.Evaluate(cashFlowContext(tt.cash))
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
			if insight.Metadata["level"] != tt.wantLevel {
				t.Errorf("expected level %s, got %v", tt.wantLevel, insight.Metadata["level"])
			}
			if insight.Priority != tt.wantPriority {
				t.Errorf("expected priority %s, got %s", tt.wantPriority, insight.Priority)
			}
		})
	}
}

func TestCashFlowForecastRule_Skips(t *testing.T) {
	rule := NewCashFlowForecastRule(defaultConfig())

	t.Run("low stress profiles", func(t *testing.T) {
		profile := saverProfile()
		profile.StressLevel = entity.StressLevelLow
		if rule.ShouldRunForProfile(profile) {
			t.Error("expected rule to skip low stress users")
		}
	})

	t.Run("no spending history", func(t *testing.T) {
		if _, ok := rule.Project(contextWith(nil, budgetOf("3000", "3100"))); ok {
			t.Error("expected no forecast without spending")
		}
	})

	t.Run("no budget", func(t *testing.T) {
		if _, ok := rule.Project(contextWith([]*entity.Transaction{spend(1, "100", "food")}, nil)); ok {
			t.Error("expected no forecast without a budget")
		}
	})
}
