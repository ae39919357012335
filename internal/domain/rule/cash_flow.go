package rule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

// Forecast is the outcome of a day-by-day balance projection.
type Forecast struct {
	StartingBalance decimal.Decimal
	LowestBalance   decimal.Decimal
	LowestDayOffset int
	EndingBalance   decimal.Decimal
}

// CashFlowForecastRule projects the balance forward and warns before it dips too low.
type CashFlowForecastRule struct {
	Descriptor
	forecastDays      int
	trailingDays      int
	warningBufferDays int
	cautionBufferDays int
}

// NewCashFlowForecastRule creates the cash flow forecast rule.
func NewCashFlowForecastRule(cfg valueobject.RuleConfig) *CashFlowForecastRule {
	return &CashFlowForecastRule{
		Descriptor: Descriptor{
			RuleID:       "cash_flow_forecast",
			RuleName:     "Cash flow forecast",
			RuleCategory: entity.InsightCategoryCashFlow,
			RuleTriggers: []entity.Trigger{
				entity.TriggerAppOpen,
				entity.TriggerMorningDigest,
				entity.TriggerWeeklySummary,
				entity.TriggerManual,
			},
			Priority:      entity.InsightPriorityHigh,
			EstimatedTime: 2 * defaultEstimate,
		},
		forecastDays:      cfg.ForecastDays,
		trailingDays:      cfg.ForecastTrailing,
		warningBufferDays: cfg.WarningBufferDays,
		cautionBufferDays: cfg.CautionBufferDays,
	}
}

// ShouldRunForProfile skips users with low stress.
func (r *CashFlowForecastRule) ShouldRunForProfile(profile *entity.Profile) bool {
	return r.Descriptor.ShouldRunForProfile(profile) && !profile.IsLowStress()
}

// Project runs the balance forward. Income arrives in equal parts on the
// 1st, the 15th and the last day of the month; a week of average spend
// leaves on the 1st and the 15th as a proxy for bills.
func (r *CashFlowForecastRule) Project(rc *Context) (Forecast, bool) {
	if rc.Budget == nil {
		return Forecast{}, false
	}
	dailySpend := rc.AverageDailySpend(r.trailingDays).Abs()
	if dailySpend.IsZero() {
		return Forecast{}, false
	}

	weeklySpend := dailySpend.Mul(decimal.NewFromInt(7))
	paycheck := rc.Budget.MonthlyIncome.Div(decimal.NewFromInt(3))

	balance := rc.Budget.CashBalance
	forecast := Forecast{
		StartingBalance: balance,
		LowestBalance:   balance,
	}

	today := rc.Today()
	for offset := 1; offset <= r.forecastDays; offset++ {
		day := today.AddDate(0, 0, offset)
		balance = balance.Sub(dailySpend)

		lastDay := day.Day() == entity.DaysInMonth(day)
		if day.Day() == 1 || day.Day() == 15 || lastDay {
			balance = balance.Add(paycheck)
		}
		if day.Day() == 1 || day.Day() == 15 {
			balance = balance.Sub(weeklySpend)
		}

		if balance.LessThan(forecast.LowestBalance) {
			forecast.LowestBalance = balance
			forecast.LowestDayOffset = offset
		}
	}
	forecast.EndingBalance = balance
	return forecast, true
}

// Evaluate warns when the projected low point crosses a safety buffer.
func (r *CashFlowForecastRule) Evaluate(rc *Context) (*entity.Insight, error) {
	forecast, ok := r.Project(rc)
	if !ok {
		return nil, nil
	}

	daily, hasBudget := rc.DailyBudget()
	if !hasBudget {
		daily = rc.AverageDailySpend(r.trailingDays).Abs()
	}
	warningBuffer := daily.Mul(decimal.NewFromInt(int64(r.warningBufferDays)))
	cautionBuffer := daily.Mul(decimal.NewFromInt(int64(r.cautionBufferDays)))

	low := forecast.LowestBalance
	days := forecast.LowestDayOffset

	var (
		level    string
		priority entity.InsightPriority
		title    string
		message  string
	)

	switch {
	case low.IsNegative():
		level = "critical"
		priority = entity.InsightPriorityCritical
		title = "Balance projected to go negative"
		message = tones{
			entity.PersonalitySaver:    fmt.Sprintf("At your current pace your balance drops to -%s in %d days. Trim spending now to stay above zero.", money(low), days),
			entity.PersonalitySpender:  fmt.Sprintf("Heads up: you could be %s in the red within %d days. Skip a few extras this week.", money(low), days),
			entity.PersonalitySharer:   fmt.Sprintf("Your balance may dip to -%s in %d days. Hold off on group plans for now.", money(low), days),
			entity.PersonalityInvestor: fmt.Sprintf("Projected liquidity shortfall of %s in %d days. Rebalance outflows immediately.", money(low), days),
			entity.PersonalityGambler:  fmt.Sprintf("You're on track to bust: -%s in %d days. Time to fold on non-essentials.", money(low), days),
		}.pick(rc.Profile)
	case low.LessThan(warningBuffer):
		level = "warning"
		priority = entity.InsightPriorityHigh
		title = "Cash cushion getting thin"
		message = tones{
			entity.PersonalitySaver:    fmt.Sprintf("Your balance is projected to fall to %s in %d days, less than %d days of budget.", money(low), days, r.warningBufferDays),
			entity.PersonalitySpender:  fmt.Sprintf("Only %s left in %d days at this rate. Ease off for a bit.", money(low), days),
			entity.PersonalitySharer:   fmt.Sprintf("Money gets tight in %d days (%s left). Suggest free plans with friends.", days, money(low)),
			entity.PersonalityInvestor: fmt.Sprintf("Cash reserve projected at %s in %d days, under %d days of runway.", money(low), days, r.warningBufferDays),
			entity.PersonalityGambler:  fmt.Sprintf("Your chips run low in %d days: %s left.", days, money(low)),
		}.pick(rc.Profile)
	case low.LessThan(cautionBuffer):
		level = "caution"
		priority = entity.InsightPriorityMedium
		title = "Watch your cash flow"
		message = tones{
			entity.PersonalitySaver:    fmt.Sprintf("Your lowest projected balance is %s in %d days. A little buffer would help.", money(low), days),
			entity.PersonalitySpender:  fmt.Sprintf("Things get a bit tight in %d days (%s). Plan purchases around payday.", days, money(low)),
			entity.PersonalitySharer:   fmt.Sprintf("Around day %d you'll have %s left. Keep shared costs modest.", days, money(low)),
			entity.PersonalityInvestor: fmt.Sprintf("Projected trough of %s at day %d, under %d days of budget.", money(low), days, r.cautionBufferDays),
			entity.PersonalityGambler:  fmt.Sprintf("Bankroll dips to %s in %d days. Bet small.", money(low), days),
		}.pick(rc.Profile)
	default:
		return nil, nil
	}

	insight := r.newInsight(rc, priority, title, message, "trending_down").
		SetAction("See forecast", "forecast").
		SetExpiry(defaultExpiry)
	insight.Set("level", level).
		Set("lowest_balance", low.StringFixed(2)).
		Set("lowest_day_offset", days).
		Set("ending_balance", forecast.EndingBalance.StringFixed(2))
	return insight, nil
}
