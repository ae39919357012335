package rule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

// Scenario identifiers, stored in the insight metadata.
const (
	ScenarioSalaryDelay    = "salary_delay"
	ScenarioHeavyWeek      = "heavy_week"
	ScenarioEarlyHighSpend = "early_high_utilization"
	ScenarioSafeToSave     = "safe_to_save"
	ScenarioCategorySpike  = "category_spike"
	salaryDelayDays        = 7
	heavyWeekBudgetShare   = 0.25
	safeToSaveMinimumShare = 0.1
	scenarioTrailingDays   = 30
)

// ScenarioRule runs several what-if heuristics and surfaces the most pressing one.
type ScenarioRule struct {
	Descriptor
	spikeRatio      float64
	earlyMonthDay   int
	highUtilization float64
}

type scenarioCheck func(rc *Context) *entity.Insight

// NewScenarioRule creates the scenario-based alert rule.
func NewScenarioRule(cfg valueobject.RuleConfig) *ScenarioRule {
	return &ScenarioRule{
		Descriptor: Descriptor{
			RuleID:       "scenario_alerts",
			RuleName:     "Scenario alerts",
			RuleCategory: entity.InsightCategoryScenario,
			RuleTriggers: []entity.Trigger{
				entity.TriggerAppOpen,
				entity.TriggerPreDecision,
				entity.TriggerWeeklySummary,
				entity.TriggerMonthlyDeepDive,
				entity.TriggerManual,
			},
			Priority:      entity.InsightPriorityMedium,
			EstimatedTime: 3 * defaultEstimate,
		},
		spikeRatio:      cfg.ScenarioCategorySpikeRatio,
		earlyMonthDay:   cfg.ScenarioEarlyMonthDay,
		highUtilization: cfg.ScenarioHighUtilization,
	}
}

// Evaluate returns the highest priority scenario that fires. The first
// scenario checked wins ties.
func (r *ScenarioRule) Evaluate(rc *Context) (*entity.Insight, error) {
	checks := []scenarioCheck{
		r.salaryDelay,
		r.heavyWeek,
		r.earlyHighUtilization,
		r.safeToSave,
		r.categorySpike,
	}

	var best *entity.Insight
	for _, check := range checks {
		insight := check(rc)
		if insight == nil {
			continue
		}
		if best == nil || insight.Priority.Rank() > best.Priority.Rank() {
			best = insight
		}
	}
	if best == nil {
		return nil, nil
	}
	best.SetExpiry(defaultExpiry)
	return best, nil
}

// salaryDelay fires when cash would not cover a week of spending if income arrived late.
func (r *ScenarioRule) salaryDelay(rc *Context) *entity.Insight {
	if rc.Budget == nil || !rc.Budget.MonthlyIncome.IsPositive() {
		return nil
	}
	burn := rc.AverageDailySpend(scenarioTrailingDays).Abs()
	if burn.IsZero() {
		return nil
	}
	needed := burn.Mul(decimal.NewFromInt(salaryDelayDays))
	shortfall := needed.Sub(rc.Budget.CashBalance)
	if !shortfall.IsPositive() {
		return nil
	}

	insight := r.newInsight(rc, entity.InsightPriorityHigh, "What if your salary is late?", tones{
		entity.PersonalitySaver:    fmt.Sprintf("If your pay were %d days late you'd be %s short. Build a small buffer.", salaryDelayDays, money(shortfall)),
		entity.PersonalitySpender:  fmt.Sprintf("A %d-day pay delay would leave you %s short. Keep a little cash aside.", salaryDelayDays, money(shortfall)),
		entity.PersonalitySharer:   fmt.Sprintf("A late paycheck would put you %s short. Avoid fronting costs for others this week.", money(shortfall)),
		entity.PersonalityInvestor: fmt.Sprintf("A %d-day income delay creates a %s liquidity gap.", salaryDelayDays, money(shortfall)),
		entity.PersonalityGambler:  fmt.Sprintf("One late paycheck and you're %s in the hole. Hedge your bets.", money(shortfall)),
	}.pick(rc.Profile), "clock")
	insight.Set("scenario", ScenarioSalaryDelay).Set("shortfall", shortfall.StringFixed(2))
	return insight
}

// heavyWeek fires when the last 7 days consumed a large share of the monthly budget.
func (r *ScenarioRule) heavyWeek(rc *Context) *entity.Insight {
	if rc.Budget == nil || !rc.Budget.MonthlyBudget.IsPositive() {
		return nil
	}
	today := rc.Today()
	week := rc.TotalSpentInPeriod(today.AddDate(0, 0, -6), today).Abs()
	share := ratioOf(week, rc.Budget.MonthlyBudget)
	if share <= heavyWeekBudgetShare {
		return nil
	}

	remaining := rc.Budget.RemainingForMonth(rc.MonthToDateSpent())
	insight := r.newInsight(rc, entity.InsightPriorityMedium, "Heavy spending week", tones{
		entity.PersonalitySaver:    fmt.Sprintf("This week used %s of your monthly budget. %s remains for the month.", percent(share), money(remaining)),
		entity.PersonalitySpender:  fmt.Sprintf("Big week! %s of the month's budget is gone.", percent(share)),
		entity.PersonalitySharer:   fmt.Sprintf("This week took %s of your budget. Plan a quieter one next.", percent(share)),
		entity.PersonalityInvestor: fmt.Sprintf("Seven-day outflow equals %s of monthly allocation.", percent(share)),
		entity.PersonalityGambler:  fmt.Sprintf("You bet %s of the month in one week.", percent(share)),
	}.pick(rc.Profile), "calendar_week")
	insight.Set("scenario", ScenarioHeavyWeek).Set("week_share", share)
	return insight
}

// earlyHighUtilization fires when most of the budget is gone early in the month.
func (r *ScenarioRule) earlyHighUtilization(rc *Context) *entity.Insight {
	if rc.Budget == nil || !rc.Budget.MonthlyBudget.IsPositive() || rc.Now.Day() > r.earlyMonthDay {
		return nil
	}
	utilization := ratioOf(rc.MonthToDateSpent(), rc.Budget.MonthlyBudget)
	if utilization < r.highUtilization {
		return nil
	}

	day := rc.Now.Day()
	insight := r.newInsight(rc, entity.InsightPriorityHigh, "Budget used up early", tones{
		entity.PersonalitySaver:    fmt.Sprintf("%s of your budget is spent by day %d. Slow down to make it last.", percent(utilization), day),
		entity.PersonalitySpender:  fmt.Sprintf("Day %d and %s of the budget is gone. The rest of the month needs a plan.", day, percent(utilization)),
		entity.PersonalitySharer:   fmt.Sprintf("%s spent by day %d. Suggest cheaper plans for the rest of the month.", percent(utilization), day),
		entity.PersonalityInvestor: fmt.Sprintf("Utilization at %s on day %d. Front-loaded burn.", percent(utilization), day),
		entity.PersonalityGambler:  fmt.Sprintf("%s of your chips played by day %d.", percent(utilization), day),
	}.pick(rc.Profile), "hourglass")
	insight.Set("scenario", ScenarioEarlyHighSpend).Set("utilization", utilization)
	return insight
}

// safeToSave fires when the projected month-end surplus is worth moving to savings.
func (r *ScenarioRule) safeToSave(rc *Context) *entity.Insight {
	if rc.Budget == nil || !rc.Budget.MonthlyBudget.IsPositive() {
		return nil
	}
	remaining := rc.Budget.RemainingForMonth(rc.MonthToDateSpent())
	projected := rc.AverageDailySpend(scenarioTrailingDays).Abs().Mul(decimal.NewFromInt(int64(rc.DaysLeftInMonth())))
	surplus := remaining.Sub(projected)
	minimum := rc.Budget.MonthlyBudget.Mul(decimal.NewFromFloat(safeToSaveMinimumShare))
	if surplus.LessThanOrEqual(minimum) {
		return nil
	}

	insight := r.newInsight(rc, entity.InsightPriorityLow, "Safe to save", tones{
		entity.PersonalitySaver:    fmt.Sprintf("You're on pace to finish the month with %s to spare. Move it to savings now.", money(surplus)),
		entity.PersonalitySpender:  fmt.Sprintf("You'll likely have %s left over. Save some before it disappears.", money(surplus)),
		entity.PersonalitySharer:   fmt.Sprintf("About %s is free this month. Put part toward a shared goal.", money(surplus)),
		entity.PersonalityInvestor: fmt.Sprintf("Projected surplus of %s. Allocate it before month end.", money(surplus)),
		entity.PersonalityGambler:  fmt.Sprintf("You're up %s on the month. Bank it.", money(surplus)),
	}.pick(rc.Profile), "piggy_bank")
	insight.SetAction("Move to savings", "savings")
	insight.Set("scenario", ScenarioSafeToSave).Set("surplus", surplus.StringFixed(2))
	return insight
}

// categorySpike fires for the category whose month-to-date spend rose the most
// over the whole previous month.
func (r *ScenarioRule) categorySpike(rc *Context) *entity.Insight {
	monthStart := rc.StartOfMonth()
	prevStart := monthStart.AddDate(0, -1, 0)
	prevEnd := monthStart.AddDate(0, 0, -1)

	var (
		spiked    string
		bestRatio float64
		current   decimal.Decimal
	)
	for _, category := range rc.Categories() {
		previous := rc.CategorySpent(category, prevStart, prevEnd)
		if !previous.IsPositive() {
			continue
		}
		now := rc.CategorySpent(category, monthStart, rc.Today())
		ratio := ratioOf(now, previous)
		if ratio > r.spikeRatio && ratio > bestRatio {
			spiked, bestRatio, current = category, ratio, now
		}
	}
	if spiked == "" {
		return nil
	}

	increase := bestRatio - 1
	insight := r.newInsight(rc, entity.InsightPriorityMedium, fmt.Sprintf("%s spending spiked", spiked), tones{
		entity.PersonalitySaver:    fmt.Sprintf("You've spent %s on %s this month, %s more than all of last month.", money(current), spiked, percent(increase)),
		entity.PersonalitySpender:  fmt.Sprintf("%s is up %s over last month. Still worth it?", spiked, percent(increase)),
		entity.PersonalitySharer:   fmt.Sprintf("%s costs jumped %s. Are you covering for others?", spiked, percent(increase)),
		entity.PersonalityInvestor: fmt.Sprintf("%s allocation up %s month over month.", spiked, percent(increase)),
		entity.PersonalityGambler:  fmt.Sprintf("%s is running %s hotter than last month.", spiked, percent(increase)),
	}.pick(rc.Profile), "bar_chart")
	insight.Set("scenario", ScenarioCategorySpike).
		Set("category", spiked).
		Set("ratio", bestRatio)
	return insight
}
