package rule

import (
	"testing"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

func TestWarModeRule_Evaluate(t *testing.T) {
	rule := NewWarModeRule(defaultConfig())
	txns := []*entity.Transaction{spend(1, "600", "rent")} // 20 a day over 30 days

	tests := []struct {
		name         string
		cash         string
		wantNil      bool
		wantLevel    entity.WarModeLevel
		wantPriority entity.InsightPriority
	}{
		{name: "five days of runway is red", cash: "100", wantLevel: entity.WarModeLevelRed, wantPriority: entity.InsightPriorityCritical},
		{name: "twelve days of runway is yellow", cash: "250", wantLevel: entity.WarModeLevelYellow, wantPriority: entity.InsightPriorityHigh},
		{name: "fifty days of runway is green", cash: "1000", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := budgetOf("3000", "3000")
			budget.CashBalance = dec(tt.cash)

			insight, err := rule.Evaluate(contextWith(txns, budget))
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
			if insight.Metadata["level"] != string(tt.wantLevel) {
				t.Errorf("expected level %s, got %v", tt.wantLevel, insight.Metadata["level"])
			}
			if insight.RuleID != "war_mode_alert" || insight.Category != entity.InsightCategoryWarMode {
				t.Errorf("unexpected identity %s/%s", insight.RuleID, insight.Category)
			}
		})
	}
}

func TestWarModeRule_PrefersWarModeCash(t *testing.T) {
	rule := NewWarModeRule(defaultConfig())
	budget := budgetOf("3000", "3000")
	budget.CashBalance = dec("10000")

	rc := NewContext(saverProfile(), testNow, []*entity.Transaction{spend(1, "600", "rent")}, budget, nil,
		&entity.WarModeStatus{Active: true, CashOnHand: dec("100")})

	runway, cash, ok := rule.RunwayDays(rc)
	if !ok {
		t.Fatal("expected a runway")
	}
	if runway != 5 || !cash.Equal(dec("100")) {
		t.Errorf("expected 5 days on 100, got %v days on %s", runway, cash)
	}
}

func TestWarModeRule_NoData(t *testing.T) {
	rule := NewWarModeRule(defaultConfig())

	t.Run("no cash figure", func(t *testing.T) {
		insight, err := rule.Evaluate(contextWith([]*entity.Transaction{spend(1, "600", "rent")}, nil))
		if err != nil || insight != nil {
			t.Errorf("expected nil, nil; got %v, %v", insight, err)
		}
	})

	t.Run("no spending", func(t *testing.T) {
		budget := budgetOf("3000", "3000")
		budget.CashBalance = dec("10")
		insight, err := rule.Evaluate(contextWith(nil, budget))
		if err != nil || insight != nil {
			t.Errorf("expected nil, nil; got %v, %v", insight, err)
		}
	})
}

func TestWarModeRule_LevelBoundaries(t *testing.T) {
	rule := NewWarModeRule(defaultConfig())

	if got := rule.Level(6.9); got != entity.WarModeLevelRed {
		t.Errorf("expected red, got %s", got)
	}
	if got := rule.Level(7); got != entity.WarModeLevelYellow {
		t.Errorf("expected yellow at exactly 7 days, got %s", got)
	}
	if got := rule.Level(14); got != entity.WarModeLevelGreen {
		t.Errorf("expected green at exactly 14 days, got %s", got)
	}
}
