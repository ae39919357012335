package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/domain/personalization"
)

func TestEvaluateInsightsUseCase(t *testing.T) {
	ctx := context.Background()
	profile := newTestProfile()
	store := newFakeInsightRepo()
	engine, _ := newTestEngine(newFakeProfileRepo(profile), store, EngineConfig{})
	_ = engine.RegisterRules(
		stubRule("manual", entity.InsightCategoryStreak, entity.InsightPriorityLow, "Manual"),
		stubRule("open", entity.InsightCategoryAnomaly, entity.InsightPriorityHigh, "Open", entity.TriggerAppOpen),
	)
	uc := NewEvaluateInsightsUseCase(engine)

	t.Run("empty trigger defaults to manual", func(t *testing.T) {
		output, err := uc.Execute(ctx, EvaluateInsightsInput{UserID: profile.UserID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Result.Trigger != entity.TriggerManual {
			t.Errorf("expected manual trigger, got %s", output.Result.Trigger)
		}
		if len(output.Result.Insights) != 1 || output.Result.Insights[0].RuleID != "manual" {
			t.Errorf("expected the manual rule only, got %v", output.Result.Insights)
		}
		if len(store.insights) != 1 {
			t.Errorf("expected the insight to be stored, got %d", len(store.insights))
		}
	})

	t.Run("explicit trigger", func(t *testing.T) {
		output, err := uc.Execute(ctx, EvaluateInsightsInput{UserID: profile.UserID, Trigger: entity.TriggerAppOpen})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Result.Insights) != 1 || output.Result.Insights[0].RuleID != "open" {
			t.Errorf("expected the app_open rule only, got %v", output.Result.Insights)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := uc.Execute(ctx, EvaluateInsightsInput{})
		assertInsightErrorCode(t, err, domainerror.ErrCodeMissingFields)
	})

	t.Run("unknown trigger", func(t *testing.T) {
		_, err := uc.Execute(ctx, EvaluateInsightsInput{UserID: profile.UserID, Trigger: "sometimes"})
		assertInsightErrorCode(t, err, domainerror.ErrCodeInvalidTrigger)
	})
}

func TestDismissInsightUseCase(t *testing.T) {
	ctx := context.Background()
	store := newFakeInsightRepo()
	owner := uuid.New()

	insight := entity.NewInsight("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, "A", "", "", testNow)
	insight.UserID = owner
	_ = store.SaveInsights(ctx, []*entity.Insight{insight})

	uc := NewDismissInsightUseCase(store)
	uc.now = func() time.Time { return testNow }

	t.Run("other user", func(t *testing.T) {
		err := uc.Execute(ctx, DismissInsightInput{InsightID: insight.ID, UserID: uuid.New()})
		assertInsightErrorCode(t, err, domainerror.ErrCodeUnauthorizedInsight)
		if insight.IsDismissed() {
			t.Error("expected the insight to stay visible")
		}
	})

	t.Run("owner", func(t *testing.T) {
		if err := uc.Execute(ctx, DismissInsightInput{InsightID: insight.ID, UserID: owner}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !insight.IsDismissed() || !insight.DismissedAt.Equal(testNow) {
			t.Errorf("expected dismissal at %v, got %v", testNow, insight.DismissedAt)
		}
	})

	t.Run("twice is a no-op", func(t *testing.T) {
		uc.now = func() time.Time { return testNow.Add(time.Hour) }
		if err := uc.Execute(ctx, DismissInsightInput{InsightID: insight.ID, UserID: owner}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !insight.DismissedAt.Equal(testNow) {
			t.Errorf("expected the first dismissal time to be kept, got %v", insight.DismissedAt)
		}
	})

	t.Run("unknown insight", func(t *testing.T) {
		err := uc.Execute(ctx, DismissInsightInput{InsightID: uuid.New(), UserID: owner})
		assertInsightErrorCode(t, err, domainerror.ErrCodeInsightNotFound)
	})
}

func TestGetDailyRecommendationsUseCase(t *testing.T) {
	ctx := context.Background()
	profile := newTestProfile()
	profile.DailyInsightCap = 2
	store := newFakeInsightRepo()

	build := func(ruleID string, category entity.InsightCategory, priority entity.InsightPriority) *entity.Insight {
		insight := entity.NewInsight(ruleID, category, priority, ruleID, "message", "", testNow.Add(-time.Hour))
		insight.UserID = profile.UserID
		return insight
	}
	expired := build("expired", entity.InsightCategoryWarMode, entity.InsightPriorityCritical).SetExpiry(30 * time.Minute)
	dismissed := build("dismissed", entity.InsightCategoryAnomaly, entity.InsightPriorityCritical)
	dismissedAt := testNow
	dismissed.DismissedAt = &dismissedAt

	_ = store.SaveInsights(ctx, []*entity.Insight{
		build("streak", entity.InsightCategoryStreak, entity.InsightPriorityLow),
		build("anomaly", entity.InsightCategoryAnomaly, entity.InsightPriorityHigh),
		build("cash", entity.InsightCategoryCashFlow, entity.InsightPriorityMedium),
		expired,
		dismissed,
	})

	uc := NewGetDailyRecommendationsUseCase(newFakeProfileRepo(profile), store, personalization.NewService())
	uc.now = func() time.Time { return testNow }

	t.Run("filters and caps", func(t *testing.T) {
		output, err := uc.Execute(ctx, GetDailyRecommendationsInput{UserID: profile.UserID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Total != 3 {
			t.Errorf("expected 3 active insights, got %d", output.Total)
		}
		if len(output.Insights) != 2 {
			t.Fatalf("expected 2 recommendations, got %d", len(output.Insights))
		}
		if output.Insights[0].RuleID != "anomaly" || output.Insights[1].RuleID != "cash" {
			t.Errorf("unexpected order %s, %s", output.Insights[0].RuleID, output.Insights[1].RuleID)
		}
		if !personalization.IsPersonalizedFor(output.Insights[0], profile) {
			t.Error("expected personalized insights")
		}
	})

	t.Run("no profile", func(t *testing.T) {
		output, err := uc.Execute(ctx, GetDailyRecommendationsInput{UserID: uuid.New()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Insights) != 0 {
			t.Errorf("expected no recommendations, got %d", len(output.Insights))
		}
	})
}

func TestListRulesUseCase(t *testing.T) {
	engine, _ := newTestEngine(newFakeProfileRepo(), newFakeInsightRepo(), EngineConfig{})
	_ = engine.RegisterRules(
		stubRule("a", entity.InsightCategoryStreak, entity.InsightPriorityLow, "", entity.TriggerAppOpen),
		stubRule("b", entity.InsightCategoryAnomaly, entity.InsightPriorityHigh, "", entity.TriggerPostTransaction),
	)
	uc := NewListRulesUseCase(engine)

	all := uc.Execute("")
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "b" {
		t.Fatalf("expected both rules in order, got %+v", all)
	}
	if all[1].DefaultPriority != entity.InsightPriorityHigh || all[1].EstimatedTime <= 0 {
		t.Errorf("unexpected descriptor %+v", all[1])
	}

	filtered := uc.Execute(entity.TriggerPostTransaction)
	if len(filtered) != 1 || filtered[0].ID != "b" {
		t.Errorf("expected rule b only, got %+v", filtered)
	}
}

func TestPurgeExpiredInsightsUseCase(t *testing.T) {
	ctx := context.Background()
	store := newFakeInsightRepo()
	stale := entity.NewInsight("stale", entity.InsightCategoryStreak, entity.InsightPriorityLow, "", "", "", testNow.Add(-48*time.Hour)).SetExpiry(24 * time.Hour)
	fresh := entity.NewInsight("fresh", entity.InsightCategoryStreak, entity.InsightPriorityLow, "", "", "", testNow).SetExpiry(24 * time.Hour)
	forever := entity.NewInsight("forever", entity.InsightCategoryStreak, entity.InsightPriorityLow, "", "", "", testNow.Add(-480*time.Hour))
	_ = store.SaveInsights(ctx, []*entity.Insight{stale, fresh, forever})

	deleted, err := NewPurgeExpiredInsightsUseCase(store).Execute(ctx, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}
	if _, ok := store.insights[stale.ID]; ok {
		t.Error("expected the stale insight to be gone")
	}
}

type fakeTransactionRepo struct {
	transactions []*entity.Transaction
	since        time.Time
	err          error
}

func (r *fakeTransactionRepo) Create(_ context.Context, transaction *entity.Transaction) error {
	r.transactions = append(r.transactions, transaction)
	return nil
}

func (r *fakeTransactionRepo) FindByUserSince(_ context.Context, userID uuid.UUID, since time.Time) ([]*entity.Transaction, error) {
	r.since = since
	if r.err != nil {
		return nil, r.err
	}
	var result []*entity.Transaction
	for _, txn := range r.transactions {
		if txn.UserID == userID && !txn.Date.Before(since) {
			result = append(result, txn)
		}
	}
	return result, nil
}

type fakeBudgetRepo struct{ budget *entity.Budget }

func (r *fakeBudgetRepo) FindByUserID(context.Context, uuid.UUID) (*entity.Budget, error) {
	return r.budget, nil
}
func (r *fakeBudgetRepo) Upsert(_ context.Context, budget *entity.Budget) error {
	r.budget = budget
	return nil
}

type fakeStreakRepo struct{ streak *entity.Streak }

func (r *fakeStreakRepo) FindByUserID(context.Context, uuid.UUID) (*entity.Streak, error) {
	return r.streak, nil
}
func (r *fakeStreakRepo) Upsert(_ context.Context, streak *entity.Streak) error {
	r.streak = streak
	return nil
}

type fakeWarModeRepo struct{ status *entity.WarModeStatus }

func (r *fakeWarModeRepo) FindByUserID(context.Context, uuid.UUID) (*entity.WarModeStatus, error) {
	return r.status, nil
}
func (r *fakeWarModeRepo) Upsert(_ context.Context, status *entity.WarModeStatus) error {
	r.status = status
	return nil
}

func TestContextLoader_Load(t *testing.T) {
	ctx := context.Background()
	profile := newTestProfile()

	recent := entity.NewTransaction(profile.UserID, testNow.AddDate(0, 0, -3), decimal.NewFromInt(-40), entity.TransactionTypeExpense, "food", "")
	old := entity.NewTransaction(profile.UserID, testNow.AddDate(0, 0, -40), decimal.NewFromInt(-10), entity.TransactionTypeExpense, "food", "")
	foreign := entity.NewTransaction(uuid.New(), testNow, decimal.NewFromInt(-99), entity.TransactionTypeExpense, "food", "")

	transactions := &fakeTransactionRepo{transactions: []*entity.Transaction{recent, old, foreign}}
	budget := &fakeBudgetRepo{budget: entity.NewBudget(profile.UserID, decimal.NewFromInt(4000), decimal.NewFromInt(3100), decimal.Zero)}
	streak := &fakeStreakRepo{streak: &entity.Streak{UserID: profile.UserID, CurrentStreak: 4, BestStreak: 9}}
	warMode := &fakeWarModeRepo{}

	loader := NewContextLoader(transactions, budget, streak, warMode, 30)

	t.Run("snapshots the user's state", func(t *testing.T) {
		rc, err := loader.Load(ctx, profile, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		wantSince := time.Date(2026, time.February, 13, 0, 0, 0, 0, time.UTC)
		if !transactions.since.Equal(wantSince) {
			t.Errorf("expected lookback from %v, got %v", wantSince, transactions.since)
		}
		if len(rc.Transactions) != 1 || rc.Transactions[0] != recent {
			t.Errorf("expected only the recent transaction, got %d", len(rc.Transactions))
		}
		if rc.Budget != budget.budget || rc.Streak != streak.streak || rc.WarMode != nil {
			t.Error("expected the stored budget and streak and no war mode status")
		}
		if rc.Profile != profile || !rc.Now.Equal(testNow) {
			t.Error("expected the context bound to the profile and time")
		}
	})

	t.Run("default lookback", func(t *testing.T) {
		l := NewContextLoader(transactions, budget, streak, warMode, 0)
		if _, err := l.Load(ctx, profile, testNow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -DefaultLookbackDays)
		if !transactions.since.Equal(want) {
			t.Errorf("expected lookback from %v, got %v", want, transactions.since)
		}
	})

	t.Run("repository failure", func(t *testing.T) {
		failing := &fakeTransactionRepo{err: errors.New("connection reset")}
		l := NewContextLoader(failing, budget, streak, warMode, 30)
		if _, err := l.Load(ctx, profile, testNow); err == nil {
			t.Error("expected an error")
		}
	})
}
