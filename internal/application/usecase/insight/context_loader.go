package insight

import (
	"context"
	"fmt"
	"time"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/rule"
)

// DefaultLookbackDays bounds how much transaction history a context holds.
const DefaultLookbackDays = 120

// ContextLoader materializes a rule context from the repositories.
type ContextLoader struct {
	transactionRepo adapter.TransactionRepository
	budgetRepo      adapter.BudgetRepository
	streakRepo      adapter.StreakRepository
	warModeRepo     adapter.WarModeRepository
	lookbackDays    int
}

// NewContextLoader creates a new ContextLoader instance.
func NewContextLoader(
	transactionRepo adapter.TransactionRepository,
	budgetRepo adapter.BudgetRepository,
	streakRepo adapter.StreakRepository,
	warModeRepo adapter.WarModeRepository,
	lookbackDays int,
) *ContextLoader {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &ContextLoader{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		streakRepo:      streakRepo,
		warModeRepo:     warModeRepo,
		lookbackDays:    lookbackDays,
	}
}

// Load reads the user's recent transactions, budget, streak and war mode
// status and snapshots them into a context evaluated at now.
func (l *ContextLoader) Load(ctx context.Context, profile *entity.Profile, now time.Time) (*rule.Context, error) {
	userID := profile.UserID
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -l.lookbackDays)

	transactions, err := l.transactionRepo.FindByUserSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	budget, err := l.budgetRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}

	streak, err := l.streakRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}

	warMode, err := l.warModeRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load war mode status: %w", err)
	}

	return rule.NewContext(profile, now, transactions, budget, streak, warMode), nil
}

// Ensure ContextLoader implements ContextProvider.
var _ ContextProvider = (*ContextLoader)(nil)
