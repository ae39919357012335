package rule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

const velocityWindowDays = 7

// SpendingVelocityRule compares the last week's spend with a week of daily budget.
type SpendingVelocityRule struct {
	Descriptor
	criticalRatio  float64
	warningRatio   float64
	excellentRatio float64
}

// NewSpendingVelocityRule creates the spending velocity rule.
func NewSpendingVelocityRule(cfg valueobject.RuleConfig) *SpendingVelocityRule {
	return &SpendingVelocityRule{
		Descriptor: Descriptor{
			RuleID:       "spending_velocity",
			RuleName:     "Spending velocity",
			RuleCategory: entity.InsightCategoryBudgetHealth,
			RuleTriggers: []entity.Trigger{
				entity.TriggerPostTransaction,
				entity.TriggerAppOpen,
				entity.TriggerWeeklySummary,
				entity.TriggerManual,
			},
			Priority: entity.InsightPriorityHigh,
		},
		criticalRatio:  cfg.VelocityCriticalRatio,
		warningRatio:   cfg.VelocityWarningRatio,
		excellentRatio: cfg.VelocityExcellentRatio,
	}
}

// Evaluate fires when the week runs well above or well below the expected pace.
func (r *SpendingVelocityRule) Evaluate(rc *Context) (*entity.Insight, error) {
	daily, ok := rc.DailyBudget()
	if !ok {
		return nil, nil
	}

	today := rc.Today()
	actual := rc.TotalSpentInPeriod(today.AddDate(0, 0, -(velocityWindowDays-1)), today).Abs()
	expected := daily.Mul(decimal.NewFromInt(velocityWindowDays))
	ratio := ratioOf(actual, expected)

	var (
		priority entity.InsightPriority
		title    string
		message  string
		icon     string
	)

	switch {
	case ratio >= r.criticalRatio:
		priority = entity.InsightPriorityCritical
		title = "Spending far too fast"
		icon = "flame"
		message = tones{
			entity.PersonalitySaver:    fmt.Sprintf("You spent %s this week, %s of your %s weekly pace. Slow down to protect the month.", money(actual), percent(ratio), money(expected)),
			entity.PersonalitySpender:  fmt.Sprintf("Whoa, %s in a week is %.1fx your usual pace. Give your wallet a break.", money(actual), ratio),
			entity.PersonalitySharer:   fmt.Sprintf("This week cost %s, %.1fx your plan. Time for a quiet week in.", money(actual), ratio),
			entity.PersonalityInvestor: fmt.Sprintf("Weekly burn at %s of plan (%s vs %s). Unsustainable.", percent(ratio), money(actual), money(expected)),
			entity.PersonalityGambler:  fmt.Sprintf("You're betting %.1fx your weekly limit. Walk away from the table.", ratio),
		}.pick(rc.Profile)
	case ratio >= r.warningRatio:
		priority = entity.InsightPriorityHigh
		title = "Spending faster than planned"
		icon = "speedometer"
		message = tones{
			entity.PersonalitySaver:    fmt.Sprintf("This week's %s is %s of your weekly budget.", money(actual), percent(ratio)),
			entity.PersonalitySpender:  fmt.Sprintf("%s this week is a bit above plan. Ease up for a few days.", money(actual)),
			entity.PersonalitySharer:   fmt.Sprintf("You've spent %s this week, above the %s plan. Maybe a potluck instead?", money(actual), money(expected)),
			entity.PersonalityInvestor: fmt.Sprintf("Weekly burn at %s of plan.", percent(ratio)),
			entity.PersonalityGambler:  fmt.Sprintf("Running hot at %s of your weekly limit.", percent(ratio)),
		}.pick(rc.Profile)
	case ratio <= r.excellentRatio && len(rc.Expenses()) > 0:
		priority = entity.InsightPriorityLow
		title = "Excellent spending pace"
		icon = "thumbs_up"
		message = tones{
			entity.PersonalitySaver:    fmt.Sprintf("Only %s spent this week, %s of plan. Great restraint.", money(actual), percent(ratio)),
			entity.PersonalitySpender:  fmt.Sprintf("Look at you! %s this week, well under budget.", money(actual)),
			entity.PersonalitySharer:   fmt.Sprintf("A light week at %s. You've earned a nice shared meal.", money(actual)),
			entity.PersonalityInvestor: fmt.Sprintf("Weekly burn at %s of plan. Consider investing the difference.", percent(ratio)),
			entity.PersonalityGambler:  fmt.Sprintf("Playing it cool at %s this week. Bank the winnings.", money(actual)),
		}.pick(rc.Profile)
	default:
		return nil, nil
	}

	insight := r.newInsight(rc, priority, title, message, icon).SetExpiry(defaultExpiry)
	insight.Set("weekly_spent", actual.StringFixed(2)).
		Set("weekly_expected", expected.StringFixed(2)).
		Set("ratio", ratio)
	return insight, nil
}
