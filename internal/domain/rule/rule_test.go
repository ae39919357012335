package rule

import (
	"errors"
	"testing"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules(defaultConfig())

	if len(rules) != 10 {
		t.Fatalf("expected 10 rules, got %d", len(rules))
	}

	seen := make(map[string]bool)
	for _, r := range rules {
		if seen[r.ID()] {
			t.Errorf("duplicate rule id %s", r.ID())
		}
		seen[r.ID()] = true

		if !r.Category().IsValid() {
			t.Errorf("rule %s has invalid category %s", r.ID(), r.Category())
		}
		if len(r.Triggers()) == 0 {
			t.Errorf("rule %s declares no triggers", r.ID())
		}
		if !r.ShouldRunForTrigger(entity.TriggerManual) {
			t.Errorf("rule %s should run on manual evaluation", r.ID())
		}
		if r.EstimatedExecutionTime() <= 0 {
			t.Errorf("rule %s has no estimated execution time", r.ID())
		}
	}
}

func TestDescriptor(t *testing.T) {
	d := Descriptor{
		RuleID:       "test_rule",
		RuleName:     "Test rule",
		RuleCategory: entity.InsightCategoryStreak,
		RuleTriggers: []entity.Trigger{entity.TriggerAppOpen},
		Priority:     entity.InsightPriorityLow,
	}

	t.Run("trigger gate", func(t *testing.T) {
		if !d.ShouldRunForTrigger(entity.TriggerAppOpen) {
			t.Error("expected declared trigger to pass")
		}
		if d.ShouldRunForTrigger(entity.TriggerWeeklySummary) {
			t.Error("expected undeclared trigger to fail")
		}
	})

	t.Run("profile gate", func(t *testing.T) {
		profile := saverProfile()
		if !d.ShouldRunForProfile(profile) {
			t.Error("expected enabled category to pass")
		}
		profile.EnabledCategories = nil
		if d.ShouldRunForProfile(profile) {
			t.Error("expected disabled category to fail")
		}
		if d.ShouldRunForProfile(nil) {
			t.Error("expected nil profile to fail")
		}
	})

	t.Run("default estimate", func(t *testing.T) {
		if d.EstimatedExecutionTime() != defaultEstimate {
			t.Errorf("expected %v, got %v", defaultEstimate, d.EstimatedExecutionTime())
		}
	})
}

func TestFuncRule(t *testing.T) {
	boom := errors.New("boom")
	r := NewFuncRule(Descriptor{RuleID: "func_rule"}, func(rc *Context) (*entity.Insight, error) {
		return nil, boom
	})

	if r.ID() != "func_rule" {
		t.Errorf("expected func_rule, got %s", r.ID())
	}
	if _, err := r.Evaluate(contextWith(nil, nil)); !errors.Is(err, boom) {
		t.Errorf("expected wrapped function error, got %v", err)
	}
}

func TestTones_Pick(t *testing.T) {
	phrasing := tones{
		entity.PersonalitySaver:   "save",
		entity.PersonalityGambler: "bet",
	}

	gambler := saverProfile()
	gambler.Personality = entity.PersonalityGambler
	if got := phrasing.pick(gambler); got != "bet" {
		t.Errorf("expected gambler tone, got %q", got)
	}

	investor := saverProfile()
	investor.Personality = entity.PersonalityInvestor
	if got := phrasing.pick(investor); got != "save" {
		t.Errorf("expected saver fallback, got %q", got)
	}

	if got := phrasing.pick(nil); got != "save" {
		t.Errorf("expected saver fallback for nil profile, got %q", got)
	}
}

func TestRulesDoNotMutateContext(t *testing.T) {
	budget := budgetOf("3000", "3100")
	budget.CashBalance = dec("150")
	budget.SavingsGoal = dec("1000")
	budget.CurrentSavings = dec("500")
	txns := []*entity.Transaction{
		spend(0, "120", "dining"),
		spend(3, "20", "dining"),
		spend(4, "30", "dining"),
		spend(5, "40", "dining"),
		spend(1, "15.99", "video"),
		spend(31, "15.99", "video"),
	}
	rc := NewContext(saverProfile(), testNow, txns, budget, &entity.Streak{CurrentStreak: 7, BestStreak: 7}, nil)

	for _, r := range DefaultRules(defaultConfig()) {
		if _, err := r.Evaluate(rc); err != nil {
			t.Errorf("rule %s returned error: %v", r.ID(), err)
		}
	}

	if len(rc.Transactions) != len(txns) {
		t.Errorf("expected %d transactions, got %d", len(txns), len(rc.Transactions))
	}
	for i, tx := range rc.Transactions {
		if tx != txns[i] {
			t.Fatalf("transaction %d was replaced", i)
		}
	}
	if !budget.CashBalance.Equal(dec("150")) || !budget.CurrentSavings.Equal(dec("500")) {
		t.Error("budget was modified")
	}
	if rc.Streak.CurrentStreak != 7 {
		t.Error("streak was modified")
	}
}
