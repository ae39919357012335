package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/integration/persistence/model"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

// newTestDB opens an isolated in-memory database with every table migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(newTestDB(t))

	profile := entity.NewProfile(uuid.New(), "ana@example.com", "Ana", entity.PersonalityGambler, entity.StressLevelHigh)
	profile.EnabledCategories = []entity.InsightCategory{entity.InsightCategoryWarMode, entity.InsightCategoryAnomaly}
	profile.DailyInsightCap = 3

	t.Run("missing", func(t *testing.T) {
		if _, err := repo.FindByUserID(ctx, profile.UserID); !errors.Is(err, domainerror.ErrProfileNotFound) {
			t.Fatalf("expected ErrProfileNotFound, got %v", err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		if err := repo.Upsert(ctx, profile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := repo.FindByUserID(ctx, profile.UserID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Personality != entity.PersonalityGambler || got.StressLevel != entity.StressLevelHigh || got.DailyInsightCap != 3 {
			t.Errorf("unexpected profile %+v", got)
		}
		if len(got.EnabledCategories) != 2 || got.EnabledCategories[0] != entity.InsightCategoryWarMode {
			t.Errorf("unexpected categories %v", got.EnabledCategories)
		}
	})

	t.Run("upsert replaces", func(t *testing.T) {
		profile.StressLevel = entity.StressLevelLow
		profile.DigestEnabled = true
		profile.Timezone = "America/Sao_Paulo"
		if err := repo.Upsert(ctx, profile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, _ := repo.FindByUserID(ctx, profile.UserID)
		if got.StressLevel != entity.StressLevelLow || !got.DigestEnabled || got.Timezone != "America/Sao_Paulo" {
			t.Errorf("expected the update to be stored, got %+v", got)
		}

		all, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected one profile, got %d", len(all))
		}
	})
}

func TestTransactionRepository_FindByUserSince(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestDB(t))
	userID := uuid.New()

	build := func(user uuid.UUID, daysAgo int, amount string) *entity.Transaction {
		return entity.NewTransaction(user, testNow.AddDate(0, 0, -daysAgo), decimal.RequireFromString(amount), entity.TransactionTypeExpense, "food", "")
	}
	newest := build(userID, 1, "-12.34")
	older := build(userID, 5, "-671.76")
	tooOld := build(userID, 40, "-5.00")
	foreign := build(uuid.New(), 1, "-1.00")

	for _, txn := range []*entity.Transaction{newest, older, tooOld, foreign} {
		if err := repo.Create(ctx, txn); err != nil {
			t.Fatalf("failed to create transaction: %v", err)
		}
	}

	got, err := repo.FindByUserSince(ctx, userID, testNow.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	if got[0].ID != older.ID || got[1].ID != newest.ID {
		t.Error("expected transactions ordered by date")
	}
	if !got[0].Amount.Equal(decimal.RequireFromString("-671.76")) {
		t.Errorf("expected -671.76, got %s", got[0].Amount)
	}
}

func TestFinancialStateRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID := uuid.New()

	t.Run("budget", func(t *testing.T) {
		repo := NewBudgetRepository(db)
		if got, err := repo.FindByUserID(ctx, userID); err != nil || got != nil {
			t.Fatalf("expected no budget, got %v, %v", got, err)
		}

		budget := entity.NewBudget(userID, decimal.NewFromInt(4000), decimal.NewFromInt(3100), decimal.NewFromInt(12000))
		budget.CashBalance = decimal.RequireFromString("-80.50")
		if err := repo.Upsert(ctx, budget); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		budget.MonthlyBudget = decimal.NewFromInt(2900)
		if err := repo.Upsert(ctx, budget); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.MonthlyBudget.Equal(decimal.NewFromInt(2900)) || !got.CashBalance.Equal(decimal.RequireFromString("-80.50")) {
			t.Errorf("unexpected budget %+v", got)
		}
	})

	t.Run("streak", func(t *testing.T) {
		repo := NewStreakRepository(db)
		lastActive := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
		streak := &entity.Streak{UserID: userID, CurrentStreak: 6, BestStreak: 21, LastActiveDate: &lastActive, UpdatedAt: testNow}
		if err := repo.Upsert(ctx, streak); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.CurrentStreak != 6 || got.BestStreak != 21 || got.LastActiveDate == nil {
			t.Errorf("unexpected streak %+v", got)
		}
	})

	t.Run("war mode", func(t *testing.T) {
		repo := NewWarModeRepository(db)
		if got, err := repo.FindByUserID(ctx, userID); err != nil || got != nil {
			t.Fatalf("expected no status, got %v, %v", got, err)
		}

		activated := testNow.Add(-time.Hour)
		status := &entity.WarModeStatus{
			UserID:      userID,
			Active:      true,
			Level:       entity.WarModeLevelRed,
			CashOnHand:  decimal.NewFromInt(150),
			ActivatedAt: &activated,
			UpdatedAt:   testNow,
		}
		if err := repo.Upsert(ctx, status); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Active || got.Level != entity.WarModeLevelRed || got.ActivatedAt == nil || !got.ActivatedAt.Equal(activated) {
			t.Errorf("unexpected status %+v", got)
		}
	})
}

func TestInsightRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInsightRepository(newTestDB(t))
	userID := uuid.New()

	build := func(ruleID string, generatedAt time.Time) *entity.Insight {
		insight := entity.NewInsight(ruleID, entity.InsightCategoryAnomaly, entity.InsightPriorityHigh, "Unusual spend", "Spent 3x your usual", "alert", generatedAt)
		insight.UserID = userID
		return insight
	}

	active := build("anomaly", testNow.Add(-time.Hour)).
		SetExpiry(24*time.Hour).
		SetAction("Review", "/transactions").
		Set("ratio", 3.5)
	permanent := build("streak", testNow.Add(-2*time.Hour))
	expired := build("velocity", testNow.Add(-48*time.Hour)).SetExpiry(24 * time.Hour)
	dismissed := build("cash_flow", testNow.Add(-3*time.Hour))

	if err := repo.SaveInsights(ctx, []*entity.Insight{active, permanent, expired, dismissed}); err != nil {
		t.Fatalf("failed to save insights: %v", err)
	}
	if err := repo.SaveInsights(ctx, nil); err != nil {
		t.Fatalf("expected an empty batch to be a no-op, got %v", err)
	}

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, active.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ActionLink != "/transactions" || got.ExpiresIn == nil || *got.ExpiresIn != 24*time.Hour {
			t.Errorf("unexpected insight %+v", got)
		}
		if ratio, ok := got.Metadata["ratio"].(float64); !ok || ratio != 3.5 {
			t.Errorf("expected ratio metadata, got %v", got.Metadata["ratio"])
		}

		if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, domainerror.ErrInsightNotFound) {
			t.Errorf("expected ErrInsightNotFound, got %v", err)
		}
	})

	t.Run("dismiss", func(t *testing.T) {
		if err := repo.MarkDismissed(ctx, dismissed.ID, testNow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, _ := repo.FindByID(ctx, dismissed.ID)
		if got.DismissedAt == nil || !got.DismissedAt.Equal(testNow) {
			t.Errorf("expected dismissal at %v, got %v", testNow, got.DismissedAt)
		}

		if err := repo.MarkDismissed(ctx, uuid.New(), testNow); !errors.Is(err, domainerror.ErrInsightNotFound) {
			t.Errorf("expected ErrInsightNotFound, got %v", err)
		}
	})

	t.Run("active only, newest first", func(t *testing.T) {
		got, err := repo.FindActiveByUserID(ctx, userID, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0].ID != active.ID || got[1].ID != permanent.ID {
			t.Errorf("expected the active and permanent insights, got %d", len(got))
		}
	})

	t.Run("delete expired", func(t *testing.T) {
		deleted, err := repo.DeleteExpired(ctx, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if deleted != 1 {
			t.Errorf("expected 1 deleted, got %d", deleted)
		}
		if _, err := repo.FindByID(ctx, expired.ID); !errors.Is(err, domainerror.ErrInsightNotFound) {
			t.Error("expected the expired insight to be gone")
		}
	})
}

func TestEmailQueueRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEmailQueueRepository(newTestDB(t))
	userID := uuid.New()

	job := entity.NewEmailJob(userID, entity.TemplateInsightDigest, "ana@example.com", "Ana", "Your insights", map[string]any{"count": 2}, testNow)
	job.DedupKey = "digest:" + userID.String() + ":2026-03-15:morning_digest"

	if err := repo.Create(ctx, job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("dedup key is unique", func(t *testing.T) {
		again := entity.NewEmailJob(userID, entity.TemplateInsightDigest, "ana@example.com", "Ana", "Your insights", nil, testNow)
		again.DedupKey = job.DedupKey

		err := repo.Create(ctx, again)
		if !errors.Is(err, domainerror.ErrEmailAlreadyQueued) {
			t.Fatalf("expected ErrEmailAlreadyQueued, got %v", err)
		}
		exists, err := repo.ExistsByDedupKey(ctx, job.DedupKey)
		if err != nil || !exists {
			t.Errorf("expected the dedup key to exist, got %v, %v", exists, err)
		}
	})

	t.Run("pending jobs are due jobs", func(t *testing.T) {
		later := entity.NewEmailJob(userID, entity.TemplateInsightDigest, "ana@example.com", "Ana", "Later", nil, testNow.Add(time.Hour))
		if err := repo.Create(ctx, later); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		pending, err := repo.GetPendingJobs(ctx, testNow, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pending) != 1 || pending[0].ID != job.ID {
			t.Errorf("expected only the due job, got %d", len(pending))
		}
		if pending[0].TemplateData["count"] != float64(2) {
			t.Errorf("expected template data to round trip, got %v", pending[0].TemplateData)
		}
	})

	t.Run("sent jobs are cleaned up", func(t *testing.T) {
		job.MarkSent("re_123", testNow)
		if err := repo.Update(ctx, job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := repo.GetByID(ctx, job.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entity.EmailStatusSent || got.ResendID != "re_123" {
			t.Errorf("unexpected job %+v", got)
		}

		deleted, err := repo.DeleteOldSentJobs(ctx, testNow.Add(time.Minute))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if deleted != 1 {
			t.Errorf("expected 1 deleted, got %d", deleted)
		}

		jobs, _ := repo.GetByUserID(ctx, userID)
		if len(jobs) != 1 {
			t.Errorf("expected the later job to remain, got %d", len(jobs))
		}
	})
}
