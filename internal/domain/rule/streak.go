package rule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

// Streak insight kinds, stored in the insight metadata.
const (
	StreakKindReset     = "reset"
	StreakKindMilestone = "milestone"
	StreakKindAtRisk    = "at_risk"
	StreakKindNear      = "near_milestone"
)

const majorStreakMilestone = 30

// StreakRule celebrates and protects the user's on-budget streak.
type StreakRule struct {
	Descriptor
	milestones  []int
	nearWindow  int
	atRiskMin   int
	atRiskRatio decimal.Decimal
}

// NewStreakRule creates the streak and momentum rule.
func NewStreakRule(cfg valueobject.RuleConfig) *StreakRule {
	return &StreakRule{
		Descriptor: Descriptor{
			RuleID:       "streak_momentum",
			RuleName:     "Streak and momentum",
			RuleCategory: entity.InsightCategoryStreak,
			RuleTriggers: []entity.Trigger{
				entity.TriggerAppOpen,
				entity.TriggerPostTransaction,
				entity.TriggerMorningDigest,
				entity.TriggerManual,
			},
			Priority: entity.InsightPriorityMedium,
		},
		milestones:  cfg.StreakMilestones,
		nearWindow:  cfg.StreakNearWindow,
		atRiskMin:   cfg.StreakAtRiskMinStreak,
		atRiskRatio: decimal.NewFromFloat(cfg.StreakAtRiskRatio),
	}
}

// Evaluate checks for a reset, an exact milestone, a streak at risk today
// and an upcoming milestone, in that order.
func (r *StreakRule) Evaluate(rc *Context) (*entity.Insight, error) {
	streak := rc.Streak
	if streak == nil {
		return nil, nil
	}
	current := streak.CurrentStreak

	var insight *entity.Insight
	switch {
	case streak.WasReset():
		insight = r.newInsight(rc, entity.InsightPriorityMedium, "Streak reset", tones{
			entity.PersonalitySaver:    fmt.Sprintf("Your streak reset, but your best is still %d days. Start again today.", streak.BestStreak),
			entity.PersonalitySpender:  fmt.Sprintf("The streak ended. No stress, you've done %d days before.", streak.BestStreak),
			entity.PersonalitySharer:   fmt.Sprintf("Streak reset. Find a friend to restart with and beat %d days together.", streak.BestStreak),
			entity.PersonalityInvestor: fmt.Sprintf("Streak back to zero. Your record of %d days shows what's possible.", streak.BestStreak),
			entity.PersonalityGambler:  fmt.Sprintf("New round. Your high score to beat is %d days.", streak.BestStreak),
		}.pick(rc.Profile), "refresh")
		insight.Set("kind", StreakKindReset)

	case r.isMilestone(current):
		priority := entity.InsightPriorityMedium
		if current >= majorStreakMilestone {
			priority = entity.InsightPriorityHigh
		}
		insight = r.newInsight(rc, priority, fmt.Sprintf("%d-day streak!", current), tones{
			entity.PersonalitySaver:    fmt.Sprintf("%d days on budget in a row. That consistency adds up.", current),
			entity.PersonalitySpender:  fmt.Sprintf("%d days straight! You're proving you can have fun and stay on budget.", current),
			entity.PersonalitySharer:   fmt.Sprintf("%d-day streak. Share it, you've earned the bragging rights.", current),
			entity.PersonalityInvestor: fmt.Sprintf("%d consecutive on-budget days. Compounding discipline.", current),
			entity.PersonalityGambler:  fmt.Sprintf("%d wins in a row. Your hot streak is real.", current),
		}.pick(rc.Profile), "flame")
		insight.Set("kind", StreakKindMilestone)

	case r.isAtRisk(rc, current):
		insight = r.newInsight(rc, entity.InsightPriorityHigh, "Streak at risk", tones{
			entity.PersonalitySaver:    fmt.Sprintf("You've already used over half of today's budget. Keep your %d-day streak alive.", current),
			entity.PersonalitySpender:  fmt.Sprintf("Careful, today's spending could break your %d-day streak.", current),
			entity.PersonalitySharer:   fmt.Sprintf("Your %d-day streak is on the line today. Skip the next round.", current),
			entity.PersonalityInvestor: fmt.Sprintf("Today's outflow threatens a %d-day streak. Hold further spending.", current),
			entity.PersonalityGambler:  fmt.Sprintf("Don't bust a %d-day run on one more purchase.", current),
		}.pick(rc.Profile), "shield_alert")
		insight.Set("kind", StreakKindAtRisk)

	default:
		next, ok := r.nextMilestone(current)
		if !ok || current == 0 || next-current > r.nearWindow {
			return nil, nil
		}
		left := next - current
		insight = r.newInsight(rc, entity.InsightPriorityLow, fmt.Sprintf("%d days to a %d-day streak", left, next), tones{
			entity.PersonalitySaver:    fmt.Sprintf("Stay on budget %d more days to reach %d.", left, next),
			entity.PersonalitySpender:  fmt.Sprintf("Just %d more days to hit a %d-day streak!", left, next),
			entity.PersonalitySharer:   fmt.Sprintf("%d days until your %d-day milestone. Get someone to hold you to it.", left, next),
			entity.PersonalityInvestor: fmt.Sprintf("%d days from the %d-day mark.", left, next),
			entity.PersonalityGambler:  fmt.Sprintf("%d more wins to hit %d. Don't fold now.", left, next),
		}.pick(rc.Profile), "milestone")
		insight.Set("kind", StreakKindNear).Set("next_milestone", next)
	}

	insight.SetExpiry(defaultExpiry)
	insight.Set("current_streak", current).Set("best_streak", streak.BestStreak)
	return insight, nil
}

func (r *StreakRule) isMilestone(days int) bool {
	for _, m := range r.milestones {
		if m == days {
			return true
		}
	}
	return false
}

func (r *StreakRule) nextMilestone(days int) (int, bool) {
	for _, m := range r.milestones {
		if m > days {
			return m, true
		}
	}
	return 0, false
}

func (r *StreakRule) isAtRisk(rc *Context, current int) bool {
	if current < r.atRiskMin {
		return false
	}
	daily, ok := rc.DailyBudget()
	if !ok {
		return false
	}
	today := rc.Today()
	spentToday := rc.TotalSpentInPeriod(today, today).Abs()
	return spentToday.GreaterThan(daily.Mul(r.atRiskRatio))
}
