package rule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

// Safe-to-spend bands, stored in the insight metadata.
const (
	SafeToSpendBandCritical = "critical"
	SafeToSpendBandWarning  = "warning"
	SafeToSpendBandOnTrack  = "on_track"
	SafeToSpendBandSurplus  = "surplus"
)

// SafeToSpendRule spreads the remaining monthly budget over the days left
// and compares the result with the nominal daily budget.
type SafeToSpendRule struct {
	Descriptor
	criticalRatio float64
	warningRatio  float64
	surplusRatio  float64
}

// NewSafeToSpendRule creates the safe-to-spend rule.
func NewSafeToSpendRule(cfg valueobject.RuleConfig) *SafeToSpendRule {
	return &SafeToSpendRule{
		Descriptor: Descriptor{
			RuleID:       "safe_to_spend",
			RuleName:     "Safe to spend today",
			RuleCategory: entity.InsightCategoryBudgetHealth,
			RuleTriggers: []entity.Trigger{
				entity.TriggerAppOpen,
				entity.TriggerMorningDigest,
				entity.TriggerPreDecision,
				entity.TriggerManual,
			},
			Priority: entity.InsightPriorityMedium,
		},
		criticalRatio: cfg.SafeToSpendCriticalRatio,
		warningRatio:  cfg.SafeToSpendWarningRatio,
		surplusRatio:  cfg.SafeToSpendSurplusRatio,
	}
}

// ShouldRunForProfile skips users under high stress.
func (r *SafeToSpendRule) ShouldRunForProfile(profile *entity.Profile) bool {
	return r.Descriptor.ShouldRunForProfile(profile) && !profile.IsHighStress()
}

// SafeToSpend returns the per-day allowance for the rest of the month and its
// ratio to the daily budget. ok is false without a budget or on the last day.
func (r *SafeToSpendRule) SafeToSpend(rc *Context) (safe decimal.Decimal, ratio float64, ok bool) {
	daily, hasBudget := rc.DailyBudget()
	daysLeft := rc.DaysLeftInMonth()
	if !hasBudget || daysLeft <= 0 {
		return decimal.Zero, 0, false
	}

	remaining := rc.Budget.RemainingForMonth(rc.MonthToDateSpent())
	safe = remaining.Div(decimal.NewFromInt(int64(daysLeft)))
	return safe, ratioOf(safe, daily), true
}

// Evaluate classifies the safe-to-spend ratio into a band.
func (r *SafeToSpendRule) Evaluate(rc *Context) (*entity.Insight, error) {
	safe, ratio, ok := r.SafeToSpend(rc)
	if !ok {
		return nil, nil
	}
	daily, _ := rc.DailyBudget()
	daysLeft := rc.DaysLeftInMonth()

	var (
		band     string
		priority entity.InsightPriority
		title    string
		message  string
		icon     string
	)

	switch {
	case ratio < r.criticalRatio:
		band = SafeToSpendBandCritical
		priority = entity.InsightPriorityHigh
		if !safe.IsPositive() {
			priority = entity.InsightPriorityCritical
		}
		title = "Budget running dry"
		icon = "alert_octagon"
		message = tones{
			entity.PersonalitySaver:    fmt.Sprintf("Only %s a day is left for the next %d days, well under your %s daily budget. Pause anything non-essential.", money(safe), daysLeft, money(daily)),
			entity.PersonalitySpender:  fmt.Sprintf("You're down to %s a day for %d days (normally %s). Time to hit pause on the fun stuff.", money(safe), daysLeft, money(daily)),
			entity.PersonalitySharer:   fmt.Sprintf("%s a day for %d days is all that's left. Let friends know you're sitting this one out.", money(safe), daysLeft),
			entity.PersonalityInvestor: fmt.Sprintf("Remaining allocation is %s per day over %d days, %s of plan. Cut discretionary outflows now.", money(safe), daysLeft, percent(ratio)),
			entity.PersonalityGambler:  fmt.Sprintf("The house is winning: %s a day left for %d days. No more big bets this month.", money(safe), daysLeft),
		}.pick(rc.Profile)
	case ratio < r.warningRatio:
		band = SafeToSpendBandWarning
		priority = entity.InsightPriorityMedium
		title = "Slow down a little"
		icon = "gauge"
		message = tones{
			entity.PersonalitySaver:    fmt.Sprintf("You can safely spend %s a day for the next %d days, a bit below your %s target.", money(safe), daysLeft, money(daily)),
			entity.PersonalitySpender:  fmt.Sprintf("%s a day keeps you on budget for the next %d days. A few small swaps will get you there.", money(safe), daysLeft),
			entity.PersonalitySharer:   fmt.Sprintf("Plan on %s a day for %d days. Cheaper hangouts this week will help.", money(safe), daysLeft),
			entity.PersonalityInvestor: fmt.Sprintf("Daily headroom is %s (%s of plan) for %d days. Tighten the burn rate slightly.", money(safe), percent(ratio), daysLeft),
			entity.PersonalityGambler:  fmt.Sprintf("Your stack is %s a day for %d days. Play it a little safer.", money(safe), daysLeft),
		}.pick(rc.Profile)
	case ratio > r.surplusRatio:
		band = SafeToSpendBandSurplus
		priority = entity.InsightPriorityLow
		title = "You're ahead of budget"
		icon = "sparkles"
		message = tones{
			entity.PersonalitySaver:    fmt.Sprintf("You have %s a day for the next %d days, above your %s plan. Consider moving the extra to savings.", money(safe), daysLeft, money(daily)),
			entity.PersonalitySpender:  fmt.Sprintf("Nice! %s a day is available for %d days. Enjoy a little, save a little.", money(safe), daysLeft),
			entity.PersonalitySharer:   fmt.Sprintf("You have room: %s a day for %d days. A good week to treat someone.", money(safe), daysLeft),
			entity.PersonalityInvestor: fmt.Sprintf("Surplus of %s per day (%s of plan). Put the excess to work.", money(safe.Sub(daily)), percent(ratio)),
			entity.PersonalityGambler:  fmt.Sprintf("You're up: %s a day for %d days. Lock in the win by saving part of it.", money(safe), daysLeft),
		}.pick(rc.Profile)
	default:
		band = SafeToSpendBandOnTrack
		priority = entity.InsightPriorityLow
		title = "Right on track"
		icon = "check_circle"
		message = tones{
			entity.PersonalitySaver:    fmt.Sprintf("%s a day for the next %d days keeps you on plan.", money(safe), daysLeft),
			entity.PersonalitySpender:  fmt.Sprintf("You're on track with %s a day for %d days.", money(safe), daysLeft),
			entity.PersonalitySharer:   fmt.Sprintf("Everything's balanced: %s a day for %d days.", money(safe), daysLeft),
			entity.PersonalityInvestor: fmt.Sprintf("Burn rate matches plan at %s per day.", money(safe)),
			entity.PersonalityGambler:  fmt.Sprintf("Steady hand: %s a day for %d days.", money(safe), daysLeft),
		}.pick(rc.Profile)
	}

	insight := r.newInsight(rc, priority, title, message, icon).SetExpiry(defaultExpiry)
	insight.Set("band", band).
		Set("safe_to_spend", safe.StringFixed(2)).
		Set("daily_budget", daily.StringFixed(2)).
		Set("days_left", daysLeft).
		Set("ratio", ratio)
	return insight, nil
}
