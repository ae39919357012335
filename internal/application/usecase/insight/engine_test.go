package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/domain/rule"
)

func newTestEngine(profiles *fakeProfileRepo, store *fakeInsightRepo, config EngineConfig) (*Engine, *fakeContextProvider) {
	contexts := &fakeContextProvider{}
	if config.Now == nil {
		config.Now = func() time.Time { return testNow }
	}
	return NewEngine(profiles, contexts, store, config), contexts
}

func TestEngine_Registry(t *testing.T) {
	engine, _ := newTestEngine(newFakeProfileRepo(), newFakeInsightRepo(), EngineConfig{})

	a := stubRule("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, "", entity.TriggerAppOpen, entity.TriggerManual)
	b := stubRule("b", entity.InsightCategoryAnomaly, entity.InsightPriorityHigh, "", entity.TriggerManual)
	c := stubRule("c", entity.InsightCategoryStreak, entity.InsightPriorityLow, "", entity.TriggerAppOpen)

	if err := engine.RegisterRules(a, b, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("registration order", func(t *testing.T) {
		assertRuleIDs(t, engine.Rules(), "a", "b", "c")
		assertRuleIDs(t, engine.RulesForTrigger(entity.TriggerAppOpen), "a", "c")
		assertRuleIDs(t, engine.RulesForCategory(entity.InsightCategoryStreak), "a", "c")
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := engine.RegisterRule(a)
		var insightErr *domainerror.InsightError
		if !errors.As(err, &insightErr) || insightErr.Code != domainerror.ErrCodeRuleAlreadyExists {
			t.Fatalf("expected %s, got %v", domainerror.ErrCodeRuleAlreadyExists, err)
		}
		if !errors.Is(err, domainerror.ErrRuleAlreadyRegistered) {
			t.Error("expected ErrRuleAlreadyRegistered")
		}
	})

	t.Run("unregister removes every index entry", func(t *testing.T) {
		if err := engine.UnregisterRule("a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertRuleIDs(t, engine.Rules(), "b", "c")
		assertRuleIDs(t, engine.RulesForTrigger(entity.TriggerAppOpen), "c")
		assertRuleIDs(t, engine.RulesForTrigger(entity.TriggerManual), "b")
		assertRuleIDs(t, engine.RulesForCategory(entity.InsightCategoryStreak), "c")
	})

	t.Run("unregister unknown", func(t *testing.T) {
		if err := engine.UnregisterRule("missing"); !errors.Is(err, domainerror.ErrRuleNotFound) {
			t.Errorf("expected ErrRuleNotFound, got %v", err)
		}
	})

	t.Run("re-register after unregister", func(t *testing.T) {
		if err := engine.RegisterRule(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertRuleIDs(t, engine.Rules(), "b", "c", "a")
	})
}

func TestEngine_EvaluateRules(t *testing.T) {
	ctx := context.Background()

	t.Run("sorts by priority and deduplicates", func(t *testing.T) {
		profile := newTestProfile()
		engine, _ := newTestEngine(newFakeProfileRepo(profile), newFakeInsightRepo(), EngineConfig{})
		_ = engine.RegisterRules(
			stubRule("low", entity.InsightCategoryStreak, entity.InsightPriorityLow, "Low"),
			stubRule("critical", entity.InsightCategoryWarMode, entity.InsightPriorityCritical, "Critical"),
			stubRule("medium", entity.InsightCategoryScenario, entity.InsightPriorityMedium, "Medium"),
			stubRule("silent", entity.InsightCategoryAnomaly, entity.InsightPriorityHigh, ""),
		)

		result, err := engine.EvaluateRules(ctx, profile.UserID, entity.TriggerManual, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.RulesEvaluated != 4 {
			t.Errorf("expected 4 rules evaluated, got %d", result.RulesEvaluated)
		}
		titles := make([]string, len(result.Insights))
		for i, insight := range result.Insights {
			titles[i] = insight.Title
			if insight.UserID != profile.UserID {
				t.Errorf("expected insight stamped with user id")
			}
			if insight.Metadata[entity.MetadataTrigger] != string(entity.TriggerManual) {
				t.Errorf("expected trigger metadata, got %v", insight.Metadata[entity.MetadataTrigger])
			}
		}
		if len(titles) != 3 || titles[0] != "Critical" || titles[1] != "Medium" || titles[2] != "Low" {
			t.Errorf("unexpected order %v", titles)
		}
		if result.SuccessCount() != 3 {
			t.Errorf("expected 3 successes, got %d", result.SuccessCount())
		}
		if !result.EvaluatedAt.Equal(testNow) {
			t.Errorf("expected evaluation time %v, got %v", testNow, result.EvaluatedAt)
		}
	})

	t.Run("failing and panicking rules are isolated", func(t *testing.T) {
		profile := newTestProfile()
		engine, _ := newTestEngine(newFakeProfileRepo(profile), newFakeInsightRepo(), EngineConfig{})

		failing := rule.NewFuncRule(rule.Descriptor{
			RuleID: "failing", RuleCategory: entity.InsightCategoryAnomaly, RuleTriggers: []entity.Trigger{entity.TriggerManual},
		}, func(*rule.Context) (*entity.Insight, error) { return nil, errors.New("boom") })
		panicking := rule.NewFuncRule(rule.Descriptor{
			RuleID: "panicking", RuleCategory: entity.InsightCategoryAnomaly, RuleTriggers: []entity.Trigger{entity.TriggerManual},
		}, func(*rule.Context) (*entity.Insight, error) { panic("bad rule") })

		_ = engine.RegisterRules(failing, panicking, stubRule("ok", entity.InsightCategoryStreak, entity.InsightPriorityLow, "Fine"))

		result, err := engine.EvaluateRules(ctx, profile.UserID, entity.TriggerManual, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Insights) != 1 || result.Insights[0].Title != "Fine" {
			t.Fatalf("expected the healthy rule's insight, got %v", result.Insights)
		}
		if result.FailureCount() != 2 {
			t.Errorf("expected 2 failures, got %d", result.FailureCount())
		}
		for _, rr := range result.RuleResults {
			if rr.RuleID == "panicking" && rr.Error == "" {
				t.Error("expected the panic to be recorded")
			}
		}
	})

	t.Run("same signature keeps the first", func(t *testing.T) {
		first := entity.NewInsight("dup", entity.InsightCategoryStreak, entity.InsightPriorityLow, "Same", "first", "icon", testNow)
		second := entity.NewInsight("dup", entity.InsightCategoryStreak, entity.InsightPriorityHigh, "Same", "second", "icon", testNow)

		got := Deduplicate([]*entity.Insight{first, second})
		if len(got) != 1 || got[0] != first {
			t.Fatalf("expected the first insight only, got %v", got)
		}
	})

	t.Run("only eligible rules run", func(t *testing.T) {
		profile := newTestProfile()
		profile.EnabledCategories = []entity.InsightCategory{entity.InsightCategoryStreak}
		engine, _ := newTestEngine(newFakeProfileRepo(profile), newFakeInsightRepo(), EngineConfig{})
		_ = engine.RegisterRules(
			stubRule("streak", entity.InsightCategoryStreak, entity.InsightPriorityLow, "Streak"),
			stubRule("anomaly", entity.InsightCategoryAnomaly, entity.InsightPriorityHigh, "Anomaly"),
			stubRule("weekly", entity.InsightCategoryStreak, entity.InsightPriorityLow, "Weekly", entity.TriggerWeeklySummary),
		)

		result, _ := engine.EvaluateRules(ctx, profile.UserID, entity.TriggerManual, nil)
		if result.RulesEvaluated != 1 || len(result.Insights) != 1 || result.Insights[0].RuleID != "streak" {
			t.Errorf("expected only the streak rule to run, got %+v", result.RuleResults)
		}
	})

	t.Run("missing profile gives an empty result", func(t *testing.T) {
		engine, contexts := newTestEngine(newFakeProfileRepo(), newFakeInsightRepo(), EngineConfig{})
		_ = engine.RegisterRule(stubRule("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, "A"))

		result, err := engine.EvaluateRules(ctx, uuid.New(), entity.TriggerManual, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsEmpty() || contexts.calls != 0 {
			t.Errorf("expected no evaluation, got %d insights and %d loads", len(result.Insights), contexts.calls)
		}
	})

	t.Run("profile lookup failure", func(t *testing.T) {
		profiles := newFakeProfileRepo()
		profiles.err = errors.New("db down")
		engine, _ := newTestEngine(profiles, newFakeInsightRepo(), EngineConfig{})
		_ = engine.RegisterRule(stubRule("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, "A"))

		_, err := engine.EvaluateRules(ctx, uuid.New(), entity.TriggerManual, nil)
		assertInsightErrorCode(t, err, domainerror.ErrCodeProfileLookupFailed)
	})

	t.Run("context load failure", func(t *testing.T) {
		profile := newTestProfile()
		engine, contexts := newTestEngine(newFakeProfileRepo(profile), newFakeInsightRepo(), EngineConfig{})
		contexts.err = errors.New("timeout")
		_ = engine.RegisterRule(stubRule("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, "A"))

		_, err := engine.EvaluateRules(ctx, profile.UserID, entity.TriggerManual, nil)
		assertInsightErrorCode(t, err, domainerror.ErrCodeContextLoadFailed)
		if !errors.Is(err, domainerror.ErrContextUnavailable) {
			t.Error("expected ErrContextUnavailable in the chain")
		}
	})

	t.Run("invalid trigger", func(t *testing.T) {
		engine, _ := newTestEngine(newFakeProfileRepo(), newFakeInsightRepo(), EngineConfig{})
		_, err := engine.EvaluateRules(ctx, uuid.New(), entity.Trigger("lunch"), nil)
		assertInsightErrorCode(t, err, domainerror.ErrCodeInvalidTrigger)
	})

	t.Run("provided context is used as is", func(t *testing.T) {
		profile := newTestProfile()
		engine, contexts := newTestEngine(newFakeProfileRepo(profile), newFakeInsightRepo(), EngineConfig{})
		_ = engine.RegisterRule(stubRule("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, "A"))

		later := testNow.Add(48 * time.Hour)
		result, err := engine.EvaluateRules(ctx, profile.UserID, entity.TriggerManual, rule.NewContext(nil, later, nil, nil, nil, nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if contexts.calls != 0 {
			t.Error("expected no context load")
		}
		if !result.Insights[0].GeneratedAt.Equal(later) {
			t.Errorf("expected insight generated at the context time, got %v", result.Insights[0].GeneratedAt)
		}
	})
}

func TestEngine_Cooldown(t *testing.T) {
	ctx := context.Background()
	profile := newTestProfile()
	cooldown := newFakeCooldown()
	engine, _ := newTestEngine(newFakeProfileRepo(profile), newFakeInsightRepo(), EngineConfig{
		Cooldown:    cooldown,
		CooldownTTL: time.Hour,
	})
	_ = engine.RegisterRule(stubRule("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, "A"))

	first, _ := engine.EvaluateRules(ctx, profile.UserID, entity.TriggerManual, nil)
	if len(first.Insights) != 1 || first.Suppressed != 0 {
		t.Fatalf("expected the first run to emit, got %d insights, %d suppressed", len(first.Insights), first.Suppressed)
	}

	second, _ := engine.EvaluateRules(ctx, profile.UserID, entity.TriggerManual, nil)
	if len(second.Insights) != 0 || second.Suppressed != 1 {
		t.Fatalf("expected the second run to be suppressed, got %d insights, %d suppressed", len(second.Insights), second.Suppressed)
	}

	cooldown.err = errors.New("redis down")
	third, _ := engine.EvaluateRules(ctx, profile.UserID, entity.TriggerManual, nil)
	if len(third.Insights) != 1 {
		t.Errorf("expected cooldown failures to keep insights, got %d", len(third.Insights))
	}
}

func TestEngine_EvaluateAndSave(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a non-empty batch", func(t *testing.T) {
		profile := newTestProfile()
		store := newFakeInsightRepo()
		engine, _ := newTestEngine(newFakeProfileRepo(profile), store, EngineConfig{})
		_ = engine.RegisterRule(stubRule("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, "A"))

		result, err := engine.EvaluateAndSave(ctx, profile.UserID, entity.TriggerManual, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.saveCalls != 1 || len(store.insights) != 1 {
			t.Errorf("expected one saved insight, got %d calls and %d insights", store.saveCalls, len(store.insights))
		}
		if _, ok := store.insights[result.Insights[0].ID]; !ok {
			t.Error("expected the returned insight to be stored")
		}
	})

	t.Run("skips the store for an empty batch", func(t *testing.T) {
		profile := newTestProfile()
		store := newFakeInsightRepo()
		engine, _ := newTestEngine(newFakeProfileRepo(profile), store, EngineConfig{})
		_ = engine.RegisterRule(stubRule("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, ""))

		if _, err := engine.EvaluateAndSave(ctx, profile.UserID, entity.TriggerManual, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.saveCalls != 0 {
			t.Errorf("expected no save, got %d", store.saveCalls)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		profile := newTestProfile()
		store := newFakeInsightRepo()
		store.saveErr = errors.New("disk full")
		engine, _ := newTestEngine(newFakeProfileRepo(profile), store, EngineConfig{})
		_ = engine.RegisterRule(stubRule("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, "A"))

		_, err := engine.EvaluateAndSave(ctx, profile.UserID, entity.TriggerManual, nil)
		assertInsightErrorCode(t, err, domainerror.ErrCodePersistFailed)
	})

	t.Run("store failure releases the cooldown", func(t *testing.T) {
		profile := newTestProfile()
		store := newFakeInsightRepo()
		store.saveErr = errors.New("db down")
		engine, _ := newTestEngine(newFakeProfileRepo(profile), store, EngineConfig{
			Cooldown:    newFakeCooldown(),
			CooldownTTL: time.Hour,
		})
		_ = engine.RegisterRule(stubRule("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, "A"))

		if _, err := engine.EvaluateAndSave(ctx, profile.UserID, entity.TriggerManual, nil); err == nil {
			t.Fatal("expected the first run to fail")
		}

		store.saveErr = nil
		result, err := engine.EvaluateAndSave(ctx, profile.UserID, entity.TriggerManual, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Insights) != 1 || result.Suppressed != 0 {
			t.Fatalf("expected the retry to emit, got %d insights, %d suppressed", len(result.Insights), result.Suppressed)
		}
		if len(store.insights) != 1 {
			t.Errorf("expected the retry to store the insight, got %d", len(store.insights))
		}

		again, _ := engine.EvaluateAndSave(ctx, profile.UserID, entity.TriggerManual, nil)
		if again.Suppressed != 1 {
			t.Errorf("expected a stored insight to stay cooling down, got %d suppressed", again.Suppressed)
		}
	})
}

func TestSortByPriority_IsStable(t *testing.T) {
	a := entity.NewInsight("a", entity.InsightCategoryStreak, entity.InsightPriorityMedium, "A", "", "", testNow)
	b := entity.NewInsight("b", entity.InsightCategoryStreak, entity.InsightPriorityMedium, "B", "", "", testNow)
	c := entity.NewInsight("c", entity.InsightCategoryStreak, entity.InsightPriorityHigh, "C", "", "", testNow)

	got := SortByPriority([]*entity.Insight{a, b, c})
	if got[0] != c || got[1] != a || got[2] != b {
		t.Errorf("expected C, A, B; got %s, %s, %s", got[0].Title, got[1].Title, got[2].Title)
	}
}

func assertRuleIDs(t *testing.T, rules []rule.Rule, want ...string) {
	t.Helper()
	if len(rules) != len(want) {
		t.Fatalf("expected rules %v, got %d rules", want, len(rules))
	}
	for i, r := range rules {
		if r.ID() != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], r.ID())
		}
	}
}

func assertInsightErrorCode(t *testing.T, err error, code domainerror.InsightErrorCode) {
	t.Helper()
	var insightErr *domainerror.InsightError
	if !errors.As(err, &insightErr) {
		t.Fatalf("expected an InsightError, got %v", err)
	}
	if insightErr.Code != code {
		t.Errorf("expected code %s, got %s", code, insightErr.Code)
	}
}
