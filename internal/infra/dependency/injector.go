// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/insights/config"
	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/application/usecase/budget"
	"github.com/finance-tracker/insights/internal/application/usecase/insight"
	"github.com/finance-tracker/insights/internal/application/usecase/profile"
	"github.com/finance-tracker/insights/internal/application/usecase/transaction"
	"github.com/finance-tracker/insights/internal/domain/personalization"
	"github.com/finance-tracker/insights/internal/domain/rule"
	"github.com/finance-tracker/insights/internal/infra/server/router"
	"github.com/finance-tracker/insights/internal/integration/adapters"
	"github.com/finance-tracker/insights/internal/integration/cache"
	"github.com/finance-tracker/insights/internal/integration/email"
	"github.com/finance-tracker/insights/internal/integration/email/templates"
	"github.com/finance-tracker/insights/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/insights/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/insights/internal/integration/persistence"
	"github.com/finance-tracker/insights/internal/integration/scheduler"
)

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Router       *router.Router
	Engine       *insight.Engine
	TokenService adapter.TokenService
	EmailWorker  *email.Worker
	Scheduler    *scheduler.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
// A nil redis client disables the cross-run insight cooldown.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, sender adapter.EmailSender) (*Injector, error) {
	// Create repositories
	profileRepo := persistence.NewProfileRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	budgetRepo := persistence.NewBudgetRepository(db)
	streakRepo := persistence.NewStreakRepository(db)
	warModeRepo := persistence.NewWarModeRepository(db)
	insightRepo := persistence.NewInsightRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	personalizationService := personalization.NewService()
	emailService := email.NewService(emailQueueRepo, cfg.Email.AppBaseURL)

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	// Create insight engine
	engineConfig := insight.EngineConfig{
		CooldownTTL: cfg.Insights.CooldownTTL,
		Logger:      slog.Default(),
	}
	if cfg.Insights.CooldownEnabled && redisClient != nil {
		engineConfig.Cooldown = cache.NewInsightCooldown(redisClient)
	}
	contextLoader := insight.NewContextLoader(transactionRepo, budgetRepo, streakRepo, warModeRepo, cfg.Insights.LookbackDays)
	engine := insight.NewEngine(profileRepo, contextLoader, insightRepo, engineConfig)
	if err := engine.RegisterRules(rule.DefaultRules(cfg.Insights.Rules)...); err != nil {
		return nil, fmt.Errorf("failed to register insight rules: %w", err)
	}

	// Create insight use cases
	evaluateUseCase := insight.NewEvaluateInsightsUseCase(engine)
	recommendUseCase := insight.NewGetDailyRecommendationsUseCase(profileRepo, insightRepo, personalizationService)
	dismissUseCase := insight.NewDismissInsightUseCase(insightRepo)
	listRulesUseCase := insight.NewListRulesUseCase(engine)
	purgeUseCase := insight.NewPurgeExpiredInsightsUseCase(insightRepo)

	// Create profile, budget and transaction use cases
	getProfileUseCase := profile.NewGetProfileUseCase(profileRepo)
	upsertProfileUseCase := profile.NewUpsertProfileUseCase(profileRepo)
	upsertBudgetUseCase := budget.NewUpsertBudgetUseCase(budgetRepo)
	upsertStreakUseCase := budget.NewUpsertStreakUseCase(streakRepo)
	upsertWarModeUseCase := budget.NewUpsertWarModeUseCase(warModeRepo)
	recordTransactionUseCase := transaction.NewRecordTransactionUseCase(transactionRepo, engine)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, redisHealthChecker(redisClient))

	insightController := controller.NewInsightController(
		evaluateUseCase,
		recommendUseCase,
		dismissUseCase,
		listRulesUseCase,
	)
	profileController := controller.NewProfileController(getProfileUseCase, upsertProfileUseCase)
	budgetController := controller.NewBudgetController(upsertBudgetUseCase, upsertStreakUseCase, upsertWarModeUseCase)
	transactionController := controller.NewTransactionController(recordTransactionUseCase)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var evaluateRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		evaluateRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		evaluateRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		insightController,
		profileController,
		budgetController,
		transactionController,
		evaluateRateLimiter,
		authMiddleware,
	)

	// Create background workers
	emailWorker := email.NewWorker(emailQueueRepo, sender, renderer, email.DefaultWorkerConfig())
	schedulerWorker := scheduler.NewWorker(
		profileRepo,
		engine,
		purgeUseCase,
		emailService,
		personalizationService,
		scheduler.Config{
			Interval:   cfg.Insights.SchedulerInterval,
			DigestHour: cfg.Insights.DigestHour,
		},
	)

	return &Injector{
		Config:       cfg,
		DB:           db,
		Router:       r,
		Engine:       engine,
		TokenService: tokenService,
		EmailWorker:  emailWorker,
		Scheduler:    schedulerWorker,
	}, nil
}

func redisHealthChecker(client *redis.Client) func() bool {
	if client == nil {
		return nil
	}
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx).Err() == nil
	}
}
